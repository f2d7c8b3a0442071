package source

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

type PDFSource struct {
	doc *fitz.Document
}

func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &PDFSource{doc: doc}, nil
}

func (p *PDFSource) PageCount() int {
	return p.doc.NumPage()
}

func (p *PDFSource) Dimensions(index int) (float64, float64, error) {
	rect, err := p.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func (p *PDFSource) Render(index int, dpi int) (image.Image, error) {
	return p.doc.ImageDPI(index, float64(dpi))
}

func (p *PDFSource) Close() error {
	return p.doc.Close()
}
