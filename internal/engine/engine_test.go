package engine

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/path2video/internal/config"
	"github.com/ivlev/path2video/internal/project"
	"github.com/ivlev/path2video/internal/timeline"
	"github.com/ivlev/path2video/internal/track"
	"github.com/ivlev/path2video/internal/video"
)

type stubSource struct {
	img image.Image
}

func (s *stubSource) PageCount() int { return 1 }

func (s *stubSource) Dimensions(index int) (float64, float64, error) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy()), nil
}

func (s *stubSource) Render(index int, dpi int) (image.Image, error) {
	return s.img, nil
}

func (s *stubSource) Close() error { return nil }

// collectEncoder counts delivered frames instead of running ffmpeg
type collectEncoder struct {
	opts       video.EncodeOptions
	frames     int
	firstWhite bool
}

func (c *collectEncoder) Encode(ctx context.Context, opts video.EncodeOptions, frames <-chan *image.RGBA) error {
	c.opts = opts
	first := true
	for img := range frames {
		if first {
			px := img.RGBAAt(32, 24)
			c.firstWhite = px.R == 255 && px.G == 255 && px.B == 255
			first = false
		}
		c.frames++
	}
	return nil
}

func testBase() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	return img
}

func exportProject() *project.Project {
	proj := &project.Project{
		Waypoints: []track.Waypoint{
			{X: 10, Y: 10},
			{X: 50, Y: 10},
		},
		Items: []timeline.Item{
			{ID: "a1", Kind: timeline.KindAnnotation, Order: 1, PathIndex: 1, Text: "Stop"},
		},
	}
	proj.Normalize()
	return proj
}

func TestExporterPipeline(t *testing.T) {
	cfg := &config.Config{
		ProjectPath:  "/tmp/test_tour.yaml",
		OutputVideo:  "/tmp/test_tour.mp4",
		Page:         -1,
		DPI:          150,
		Width:        64,
		Height:       48,
		FPS:          10,
		Workers:      3,
		Hold:         0.5,
		VideoEncoder: "libx264",
		Quality:      23,
	}

	enc := &collectEncoder{}
	exp := NewExporter(cfg, exportProject(), &stubSource{img: testBase()}, enc)

	if err := exp.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// draw 2s + wait 1.5s + flash 0.5s + hold 0.5s at 10 FPS
	if enc.frames != 45 {
		t.Errorf("Expected 45 frames, got %d", enc.frames)
	}
	if enc.opts.Width != 64 || enc.opts.Height != 48 {
		t.Errorf("Expected 64x48 encode, got %dx%d", enc.opts.Width, enc.opts.Height)
	}
	if !enc.firstWhite {
		t.Errorf("Expected white flash on the first frame")
	}
}

func TestExporterPageOutOfRange(t *testing.T) {
	cfg := &config.Config{
		Page: 5, DPI: 150, Width: 64, Height: 48, FPS: 10,
	}

	exp := NewExporter(cfg, exportProject(), &stubSource{img: testBase()}, &collectEncoder{})
	if err := exp.Run(context.Background()); err == nil {
		t.Errorf("Expected error for page out of range")
	}
}

func TestFrameCount(t *testing.T) {
	tests := []struct {
		seconds float64
		fps     int
		want    int
	}{
		{4.5, 30, 135},
		{0.01, 30, 1},
		{0, 30, 1},
		{-1, 30, 1},
		{1.0, 24, 24},
	}

	for _, tt := range tests {
		got := frameCount(tt.seconds, tt.fps)
		if got != tt.want {
			t.Errorf("frameCount(%v, %d): expected %d, got %d", tt.seconds, tt.fps, tt.want, got)
		}
	}
}

func TestFitWidth(t *testing.T) {
	if w := fitWidth(1920, 1080, 720); w != 1280 {
		t.Errorf("Expected 1280, got %d", w)
	}
	if w := fitWidth(1080, 1920, 720); w != 405 {
		t.Errorf("Expected 405, got %d", w)
	}
	if w := fitWidth(100, 0, 720); w != 720 {
		t.Errorf("Expected fallback 720, got %d", w)
	}
}

func TestEvenDims(t *testing.T) {
	w, h := evenDims(405, 720)
	if w != 406 || h != 720 {
		t.Errorf("Expected 406x720, got %dx%d", w, h)
	}

	w, h = evenDims(1280, 720)
	if w != 1280 || h != 720 {
		t.Errorf("Expected unchanged 1280x720, got %dx%d", w, h)
	}

	w, h = evenDims(7, 7)
	if w != 8 || h != 8 {
		t.Errorf("Expected 8x8, got %dx%d", w, h)
	}
}
