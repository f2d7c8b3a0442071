package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/ivlev/path2video/internal/system"
)

// Encoder consumes rendered frames and produces the output video
type Encoder interface {
	Encode(ctx context.Context, opts EncodeOptions, frames <-chan *image.RGBA) error
}

type EncodeOptions struct {
	OutputPath string
	Width      int
	Height     int
	FPS        int
	Encoder    string
	Quality    int
}

// FFmpegEncoder пишет кадры в один процесс ffmpeg через stdin,
// без промежуточных файлов на диске
type FFmpegEncoder struct{}

func (e *FFmpegEncoder) Encode(ctx context.Context, opts EncodeOptions, frames <-chan *image.RGBA) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", buildArgs(opts)...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	for img := range frames {
		err := writeRawRGBA(stdin, img)
		system.PutFrame(img)
		if err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("write raw error: %w, log: %s", err, out.String())
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg error: %v, log: %s", err, out.String())
	}

	return nil
}

func buildArgs(opts EncodeOptions) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprintf("%d", opts.FPS),
		"-i", "-",
		"-c:v", opts.Encoder,
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
	}
	args = append(args, qualityArgs(opts.Encoder, opts.Quality)...)
	args = append(args, opts.OutputPath)
	return args
}

// qualityArgs переводит число качества в флаги конкретного энкодера
func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox не везде понимает -q:v, используем битрейт
		bitrate := quality * 100
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// DefaultQuality выбирает авто-качество под энкодер
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // битрейт 7.5 Мбит/с
	case "h264_nvenc":
		return 28
	default:
		return 23 // стандартный CRF для x264
	}
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(bounds)
		draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
