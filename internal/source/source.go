package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Source provides the pages of a presentation document
type Source interface {
	PageCount() int
	Dimensions(index int) (width, height float64, err error)
	Render(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a backend by file extension
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFSource(path)
	case ".jpg", ".jpeg", ".png":
		return NewImageSource(path)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", filepath.Ext(path))
	}
}

// LoadPage opens a document, renders one page and closes it again
func LoadPage(path string, page int, dpi int) (image.Image, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if page < 0 || page >= src.PageCount() {
		return nil, fmt.Errorf("page %d out of range, document has %d", page, src.PageCount())
	}

	return src.Render(page, dpi)
}
