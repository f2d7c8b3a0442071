package director

import (
	"fmt"
	"image"
	"sort"

	"github.com/ivlev/path2video/internal/analyzer"
	"github.com/ivlev/path2video/internal/project"
	"github.com/ivlev/path2video/internal/timeline"
	"github.com/ivlev/path2video/internal/track"
)

// Director composes automatic tours over detected regions
type Director struct {
	MaxStops     int     // Cap on tour stops
	AreaMinShare float64 // Image share above which a stop also gets a zone
	EdgeMargin   float64 // Entry waypoint offset from the left edge, as image share
}

// NewDirector creates a Director with default settings
func NewDirector() *Director {
	return &Director{
		MaxStops:     8,
		AreaMinShare: 0.08,
		EdgeMargin:   0.04,
	}
}

// Options describe the image the tour runs over
type Options struct {
	Image string
	Page  int
}

// Compose builds a tour project: an entry waypoint at the image edge,
// one waypoint per region in reading order, an annotation per stop,
// and a zone for regions large enough to matter
func (d *Director) Compose(regions []analyzer.Region, width, height int, opts Options) (*project.Project, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("no regions detected")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	// Detectors return regions best first, so the cap keeps the most
	// salient ones; reading order applies to the survivors
	capped := regions
	if len(capped) > d.MaxStops {
		capped = capped[:d.MaxStops]
	}
	sorted := d.sortRegions(capped, height)

	// Entry point at the left edge, level with the first stop
	firstY := float64(center(sorted[0].Bounds).Y)
	waypoints := []track.Waypoint{
		{X: float64(width) * d.EdgeMargin, Y: firstY},
	}

	var items []timeline.Item
	imageArea := float64(width * height)

	for i, region := range sorted {
		c := center(region.Bounds)
		waypoints = append(waypoints, track.Waypoint{X: float64(c.X), Y: float64(c.Y)})

		items = append(items, timeline.Item{
			ID:        fmt.Sprintf("stop-%d", i+1),
			Kind:      timeline.KindAnnotation,
			Order:     float64(i + 1),
			PathIndex: i + 1,
			Text:      fmt.Sprintf("Stop %d", i+1),
			OffsetX:   14,
			OffsetY:   -14,
		})

		// Big regions get a highlight zone right after their stop
		share := float64(region.Bounds.Dx()*region.Bounds.Dy()) / imageArea
		if share >= d.AreaMinShare {
			items = append(items, timeline.Item{
				ID:      fmt.Sprintf("zone-%d", i+1),
				Kind:    timeline.KindArea,
				Order:   float64(i+1) + 0.5,
				Polygon: rectPolygon(region.Bounds),
			})
		}
	}

	proj := &project.Project{
		Version:   "1.0",
		Image:     opts.Image,
		Page:      opts.Page,
		Waypoints: waypoints,
		Items:     items,
	}
	proj.Normalize()

	return proj, nil
}

// sortRegions orders regions in reading order (Western: top-to-bottom,
// left-to-right within a row)
func (d *Director) sortRegions(regions []analyzer.Region, height int) []analyzer.Region {
	sorted := make([]analyzer.Region, len(regions))
	copy(sorted, regions)

	// Regions whose tops are this close count as one row
	band := height / 20
	if band < 20 {
		band = 20
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		yDiff := sorted[i].Bounds.Min.Y - sorted[j].Bounds.Min.Y
		if abs(yDiff) > band {
			return sorted[i].Bounds.Min.Y < sorted[j].Bounds.Min.Y
		}

		// Same row, sort by X
		return sorted[i].Bounds.Min.X < sorted[j].Bounds.Min.X
	})

	return sorted
}

// center finds the center point of a rectangle
func center(rect image.Rectangle) image.Point {
	return image.Point{
		X: rect.Min.X + rect.Dx()/2,
		Y: rect.Min.Y + rect.Dy()/2,
	}
}

// rectPolygon converts bounds into a four-corner polygon
func rectPolygon(rect image.Rectangle) []track.Point {
	return []track.Point{
		{X: float64(rect.Min.X), Y: float64(rect.Min.Y)},
		{X: float64(rect.Max.X), Y: float64(rect.Min.Y)},
		{X: float64(rect.Max.X), Y: float64(rect.Max.Y)},
		{X: float64(rect.Min.X), Y: float64(rect.Max.Y)},
	}
}

// abs returns absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
