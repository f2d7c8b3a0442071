package analyzer

import (
	"fmt"
	"image"
	"sort"
)

// Region is a visually salient part of the image worth a tour stop.
// Score grows with edge density; detectors return regions sorted by
// descending score.
type Region struct {
	Bounds image.Rectangle
	Score  float64
}

// Detector is the interface for image analysis strategies
type Detector interface {
	Detect(img image.Image) ([]Region, error)
}

// NewDetector creates a detector by name
func NewDetector(name string) (Detector, error) {
	switch name {
	case "contrast", "":
		return NewContrastDetector(), nil
	case "grid":
		return NewGridDetector(), nil
	default:
		return nil, fmt.Errorf("unknown detector: %s", name)
	}
}

// sortByScore orders regions best first
func sortByScore(regions []Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Score > regions[j].Score
	})
}
