package analyzer

import "image"

// ContrastDetector finds regions by edge density: Sobel gradients are
// thresholded into an edge mask, the mask is dilated so broken
// outlines connect, and the connected components become candidate
// regions. Overlapping candidates merge into one.
type ContrastDetector struct {
	MinArea       int     // Smallest region worth keeping, in pixels
	EdgeThreshold float64 // Gradient magnitude cutoff
	DilateRadius  int
	DilatePasses  int
}

// NewContrastDetector returns a detector with the default tuning
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinArea:       500,
		EdgeThreshold: 30.0,
		DilateRadius:  2,
		DilatePasses:  2,
	}
}

// Detect finds salient regions of the image
func (d *ContrastDetector) Detect(img image.Image) ([]Region, error) {
	gray := toGrayscale(img)
	grad := gradientMagnitudes(gray)

	h := len(grad)
	if h == 0 {
		return nil, nil
	}
	w := len(grad[0])

	// Threshold into an edge mask
	mask := make([][]bool, h)
	for y := range mask {
		mask[y] = make([]bool, w)
		for x := range mask[y] {
			mask[y][x] = grad[y][x] > d.EdgeThreshold
		}
	}

	mask = dilateMask(mask, d.DilateRadius, d.DilatePasses)

	boxes := mergeOverlapping(connectedComponents(mask))

	var regions []Region
	for _, box := range boxes {
		if box.Dx()*box.Dy() < d.MinArea {
			continue
		}
		regions = append(regions, Region{
			Bounds: box.Add(img.Bounds().Min),
			Score:  maskDensity(mask, box),
		})
	}

	sortByScore(regions)
	return regions, nil
}

// dilateMask grows set pixels by radius in every direction, repeated
// passes times
func dilateMask(mask [][]bool, radius, passes int) [][]bool {
	h := len(mask)
	if h == 0 || radius <= 0 {
		return mask
	}
	w := len(mask[0])

	for p := 0; p < passes; p++ {
		out := make([][]bool, h)
		for y := range out {
			out[y] = make([]bool, w)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !mask[y][x] {
					continue
				}
				for dy := -radius; dy <= radius; dy++ {
					for dx := -radius; dx <= radius; dx++ {
						ny, nx := y+dy, x+dx
						if ny >= 0 && ny < h && nx >= 0 && nx < w {
							out[ny][nx] = true
						}
					}
				}
			}
		}
		mask = out
	}

	return mask
}

// connectedComponents returns the bounding box of every 4-connected
// group of set pixels
func connectedComponents(mask [][]bool) []image.Rectangle {
	h := len(mask)
	if h == 0 {
		return nil
	}
	w := len(mask[0])

	visited := make([][]bool, h)
	for y := range visited {
		visited[y] = make([]bool, w)
	}

	var boxes []image.Rectangle
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask[y][x] && !visited[y][x] {
				boxes = append(boxes, fillComponent(mask, visited, x, y))
			}
		}
	}

	return boxes
}

// fillComponent flood-fills one component and returns its bounds
func fillComponent(mask, visited [][]bool, startX, startY int) image.Rectangle {
	h, w := len(mask), len(mask[0])
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	stack := []image.Point{{X: startX, Y: startY}}
	visited[startY][startX] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		neighbors := [4]image.Point{
			{X: p.X + 1, Y: p.Y},
			{X: p.X - 1, Y: p.Y},
			{X: p.X, Y: p.Y + 1},
			{X: p.X, Y: p.Y - 1},
		}
		for _, n := range neighbors {
			if n.X >= 0 && n.X < w && n.Y >= 0 && n.Y < h && mask[n.Y][n.X] && !visited[n.Y][n.X] {
				visited[n.Y][n.X] = true
				stack = append(stack, n)
			}
		}
	}

	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// mergeOverlapping unions intersecting boxes until none intersect
func mergeOverlapping(boxes []image.Rectangle) []image.Rectangle {
	merged := true
	for merged {
		merged = false
		for i := 0; i < len(boxes); i++ {
			for j := i + 1; j < len(boxes); j++ {
				if boxes[i].Overlaps(boxes[j]) {
					boxes[i] = boxes[i].Union(boxes[j])
					boxes = append(boxes[:j], boxes[j+1:]...)
					merged = true
					j--
				}
			}
		}
	}

	return boxes
}

// maskDensity is the fraction of set pixels inside the box
func maskDensity(mask [][]bool, box image.Rectangle) float64 {
	area := box.Dx() * box.Dy()
	if area == 0 {
		return 0
	}

	count := 0
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if mask[y][x] {
				count++
			}
		}
	}

	return float64(count) / float64(area)
}
