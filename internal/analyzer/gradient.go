package analyzer

import (
	"image"
	"image/color"
	"math"
)

// toGrayscale converts an image to grayscale
func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}

	return gray
}

// gradientMagnitudes computes the Sobel gradient magnitude for every
// interior pixel. The result is indexed [y][x] relative to the image
// origin; the one-pixel border stays zero.
func gradientMagnitudes(gray *image.Gray) [][]float64 {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	grad := make([][]float64, h)
	for i := range grad {
		grad[i] = make([]float64, w)
	}

	gx := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	gy := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var sumX, sumY float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := float64(gray.GrayAt(bounds.Min.X+x+kx, bounds.Min.Y+y+ky).Y)
					sumX += pixel * gx[ky+1][kx+1]
					sumY += pixel * gy[ky+1][kx+1]
				}
			}
			grad[y][x] = math.Sqrt(sumX*sumX + sumY*sumY)
		}
	}

	return grad
}
