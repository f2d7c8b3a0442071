package source

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

type ImageSource struct {
	path string
}

func NewImageSource(path string) (*ImageSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &ImageSource{path: path}, nil
}

func (s *ImageSource) PageCount() int {
	return 1
}

func (s *ImageSource) Dimensions(index int) (float64, float64, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

func (s *ImageSource) Render(index int, dpi int) (image.Image, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}
