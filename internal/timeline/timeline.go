package timeline

import (
	"sort"

	"github.com/ivlev/path2video/internal/track"
)

// Event types
const (
	EventDraw = "draw"
	EventWait = "wait"
	EventArea = "area"
)

// Item kinds
const (
	KindAnnotation = "annotation"
	KindArea       = "area"
)

// Item is one timed entry of the tour: a text annotation bound to a
// waypoint, or a polygon area independent of the path. Kind selects
// which fields apply. Order is a pure sort key; ties keep insertion
// order.
type Item struct {
	ID      string  `yaml:"id,omitempty"`
	Kind    string  `yaml:"kind"`
	Order   float64 `yaml:"order"`
	Comment string  `yaml:"comment,omitempty"`

	// Annotation fields
	PathIndex       int      `yaml:"path_index,omitempty"`
	Text            string   `yaml:"text,omitempty"`
	OffsetX         float64  `yaml:"offset_x,omitempty"`
	OffsetY         float64  `yaml:"offset_y,omitempty"`
	SegmentDuration *float64 `yaml:"segment_duration,omitempty"`
	PauseDuration   *float64 `yaml:"pause_duration,omitempty"`

	// Area fields
	Polygon        []track.Point `yaml:"polygon,omitempty"`
	AppearDuration *float64      `yaml:"appear_duration,omitempty"`
}

// Defaults are the global durations applied when an item carries no override
type Defaults struct {
	Segment float64 // Seconds to draw one path segment
	Pause   float64 // Seconds to hold at an annotation
	Area    float64 // Seconds to fade in an area
}

// Event is one phase of the schedule: drawing a path segment (draw),
// holding at an annotation (wait), or fading in an area (area).
// ItemID is empty for draw events.
type Event struct {
	Type          string
	Start         float64
	Duration      float64
	StartDistance float64
	EndDistance   float64
	ItemID        string
}

// End returns the event's end time
func (e Event) End() float64 {
	return e.Start + e.Duration
}

// Schedule is the flattened, time-ordered plan derived from items.
// Events never overlap and are sorted by start time by construction.
type Schedule struct {
	Events        []Event
	TotalDuration float64
	TotalLength   float64
}

// Remaining path shorter than this is not worth a trailing draw event
const tailEpsilon = 0.1

// Build converts ordered items into a flat schedule. A time cursor and
// a distance cursor advance together: annotations ahead of the current
// waypoint first draw the path up to their waypoint, then hold; areas
// only hold. Whatever path remains after the last item is drawn in a
// trailing event with the default segment duration.
func Build(m track.Metrics, items []Item, defaults Defaults) Schedule {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	var events []Event
	timeCursor := 0.0
	distCursor := 0.0
	currentWaypoint := 0

	for _, item := range sorted {
		switch item.Kind {
		case KindAnnotation:
			target := clampIndex(item.PathIndex, len(m.Cumulative))

			if target > currentWaypoint {
				segmentDistance := m.Cumulative[target] - m.Cumulative[currentWaypoint]
				if segmentDistance > 0 {
					duration := orDefault(item.SegmentDuration, defaults.Segment)
					events = append(events, Event{
						Type:          EventDraw,
						Start:         timeCursor,
						Duration:      duration,
						StartDistance: distCursor,
						EndDistance:   distCursor + segmentDistance,
					})
					timeCursor += duration
					distCursor += segmentDistance
				}
			} else if len(events) == 0 && target == 0 && currentWaypoint == 0 {
				// Historical quirk kept for schedule compatibility: the
				// first annotation sitting on the first waypoint emits an
				// empty draw event. Zero duration, zero distance; it can
				// never become the active event.
				events = append(events, Event{
					Type:          EventDraw,
					Start:         timeCursor,
					StartDistance: distCursor,
					EndDistance:   distCursor,
				})
			}

			pause := orDefault(item.PauseDuration, defaults.Pause)
			events = append(events, Event{
				Type:          EventWait,
				Start:         timeCursor,
				Duration:      pause,
				StartDistance: distCursor,
				EndDistance:   distCursor,
				ItemID:        item.ID,
			})
			timeCursor += pause

			// Backward references are legal; they just never draw
			currentWaypoint = target

		case KindArea:
			appear := orDefault(item.AppearDuration, defaults.Area)
			events = append(events, Event{
				Type:          EventArea,
				Start:         timeCursor,
				Duration:      appear,
				StartDistance: distCursor,
				EndDistance:   distCursor,
				ItemID:        item.ID,
			})
			timeCursor += appear
		}
	}

	// Draw whatever path remains past the last visited waypoint
	if last := len(m.Cumulative) - 1; currentWaypoint < last {
		remaining := m.TotalLength - m.Cumulative[currentWaypoint]
		if remaining > tailEpsilon {
			events = append(events, Event{
				Type:          EventDraw,
				Start:         timeCursor,
				Duration:      defaults.Segment,
				StartDistance: distCursor,
				EndDistance:   distCursor + remaining,
			})
			timeCursor += defaults.Segment
		}
	}

	return Schedule{
		Events:        events,
		TotalDuration: timeCursor,
		TotalLength:   m.TotalLength,
	}
}

// clampIndex forces a waypoint reference into the valid range so that
// out-of-range items schedule against the nearest real waypoint
func clampIndex(i, count int) int {
	if count == 0 || i < 0 {
		return 0
	}
	if i >= count {
		return count - 1
	}
	return i
}

// orDefault resolves an optional per-item duration against the global
// default. Negative durations collapse to zero.
func orDefault(override *float64, def float64) float64 {
	d := def
	if override != nil {
		d = *override
	}
	if d < 0 {
		return 0
	}
	return d
}
