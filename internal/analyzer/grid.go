package analyzer

import "image"

// GridDetector scores fixed grid cells by mean gradient magnitude and
// keeps the busiest ones. Predictable on dense pages where contour
// detection collapses into one huge region.
type GridDetector struct {
	Rows     int
	Cols     int
	Keep     int     // How many cells survive
	MinScore float64 // Cells below this mean magnitude are ignored
}

// NewGridDetector returns a detector with the default tuning
func NewGridDetector() *GridDetector {
	return &GridDetector{
		Rows:     3,
		Cols:     3,
		Keep:     5,
		MinScore: 5.0,
	}
}

// Detect scores every grid cell of the image
func (d *GridDetector) Detect(img image.Image) ([]Region, error) {
	gray := toGrayscale(img)
	grad := gradientMagnitudes(gray)

	h := len(grad)
	if h == 0 {
		return nil, nil
	}
	w := len(grad[0])

	cellW := w / d.Cols
	cellH := h / d.Rows
	if cellW == 0 || cellH == 0 {
		return nil, nil
	}

	var regions []Region
	for row := 0; row < d.Rows; row++ {
		for col := 0; col < d.Cols; col++ {
			box := image.Rect(col*cellW, row*cellH, (col+1)*cellW, (row+1)*cellH)
			score := meanGradient(grad, box)
			if score >= d.MinScore {
				regions = append(regions, Region{
					Bounds: box.Add(img.Bounds().Min),
					Score:  score,
				})
			}
		}
	}

	sortByScore(regions)
	if len(regions) > d.Keep {
		regions = regions[:d.Keep]
	}

	return regions, nil
}

// meanGradient averages the gradient magnitude inside the box
func meanGradient(grad [][]float64, box image.Rectangle) float64 {
	area := box.Dx() * box.Dy()
	if area == 0 {
		return 0
	}

	sum := 0.0
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			sum += grad[y][x]
		}
	}

	return sum / float64(area)
}
