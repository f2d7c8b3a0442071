package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestProject(t *testing.T) {
	dir := "/tmp/path2video_latest_test"
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create test dir: %v", err)
	}
	defer os.RemoveAll(dir)

	older := filepath.Join(dir, "old_tour.yaml")
	newer := filepath.Join(dir, "new_tour.yml")
	ignored := filepath.Join(dir, "notes.txt")

	for _, f := range []string{older, newer, ignored} {
		if err := os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", f, err)
		}
	}

	now := time.Now()
	os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour))
	os.Chtimes(newer, now, now)

	found, err := FindLatestProject(dir)
	if err != nil {
		t.Fatalf("FindLatestProject failed: %v", err)
	}
	if found != newer {
		t.Errorf("Expected %s, got %s", newer, found)
	}
}

func TestFindLatestProjectEmpty(t *testing.T) {
	dir := "/tmp/path2video_empty_test"
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create test dir: %v", err)
	}
	defer os.RemoveAll(dir)

	_, err := FindLatestProject(dir)
	if err == nil {
		t.Errorf("Expected error for directory without projects")
	}
}

func TestBestEncoder(t *testing.T) {
	enc := BestEncoder()
	switch enc {
	case "h264_videotoolbox", "h264_nvenc", "libx264":
		t.Logf("Selected encoder: %s", enc)
	default:
		t.Errorf("Unexpected encoder: %s", enc)
	}
}

func TestHostSummary(t *testing.T) {
	summary := HostSummary()
	if summary == "" {
		t.Errorf("Expected non-empty host summary")
	}
	t.Logf("Host: %s", summary)
}

func TestFramePool(t *testing.T) {
	rect := image.Rect(0, 0, 64, 48)

	img := GetFrame(rect)
	if img == nil {
		t.Fatalf("Expected frame from pool")
	}
	if img.Bounds() != rect {
		t.Errorf("Expected bounds %v, got %v", rect, img.Bounds())
	}

	img.Pix[0] = 42
	PutFrame(img)

	again := GetFrame(rect)
	if again.Bounds() != rect {
		t.Errorf("Expected reused bounds %v, got %v", rect, again.Bounds())
	}

	other := GetFrame(image.Rect(0, 0, 10, 10))
	if other.Bounds().Dx() != 10 {
		t.Errorf("Expected separate pool per size, got %v", other.Bounds())
	}

	PutFrame(nil)
}
