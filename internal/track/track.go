package track

import "math"

// Point is a 2D position in image pixel space
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Waypoint is an ordered position on the drawn path. Color optionally
// overrides the path color for the segment starting at this waypoint.
type Waypoint struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Color string  `yaml:"color,omitempty"`
}

// Point returns the waypoint position
func (w Waypoint) Point() Point {
	return Point{X: w.X, Y: w.Y}
}

// Metrics holds cumulative arc-length distances along a waypoint path
type Metrics struct {
	TotalLength float64
	Cumulative  []float64
}

// ComputeMetrics calculates cumulative Euclidean distances over the
// waypoint sequence. Cumulative[0] is 0 and Cumulative[i] is the path
// length from the first waypoint through waypoint i.
func ComputeMetrics(waypoints []Waypoint) Metrics {
	if len(waypoints) == 0 {
		return Metrics{}
	}

	cumulative := make([]float64, len(waypoints))
	for i := 1; i < len(waypoints); i++ {
		dx := waypoints[i].X - waypoints[i-1].X
		dy := waypoints[i].Y - waypoints[i-1].Y
		cumulative[i] = cumulative[i-1] + math.Hypot(dx, dy)
	}

	return Metrics{
		TotalLength: cumulative[len(cumulative)-1],
		Cumulative:  cumulative,
	}
}

// PointAt returns the position at the given distance along the path.
// Distances outside [0, TotalLength] clamp to the path endpoints.
func PointAt(waypoints []Waypoint, m Metrics, distance float64) Point {
	if len(waypoints) == 0 {
		return Point{}
	}
	if distance <= 0 || len(waypoints) == 1 {
		return waypoints[0].Point()
	}
	if distance >= m.TotalLength {
		return waypoints[len(waypoints)-1].Point()
	}

	// Find the segment containing the distance
	for i := 1; i < len(m.Cumulative); i++ {
		if distance <= m.Cumulative[i] {
			segLen := m.Cumulative[i] - m.Cumulative[i-1]
			if segLen == 0 {
				return waypoints[i].Point()
			}
			t := (distance - m.Cumulative[i-1]) / segLen
			return Point{
				X: lerp(waypoints[i-1].X, waypoints[i].X, t),
				Y: lerp(waypoints[i-1].Y, waypoints[i].Y, t),
			}
		}
	}

	return waypoints[len(waypoints)-1].Point()
}

// SegmentColor returns the color for the segment starting at waypoint i,
// falling back to the given default when the waypoint has no override
func SegmentColor(waypoints []Waypoint, i int, fallback string) string {
	if i >= 0 && i < len(waypoints) && waypoints[i].Color != "" {
		return waypoints[i].Color
	}
	return fallback
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
