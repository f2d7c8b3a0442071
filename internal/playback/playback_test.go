package playback

import (
	"testing"

	"github.com/ivlev/path2video/internal/timeline"
	"github.com/ivlev/path2video/internal/track"
)

// boundarySchedule is the reference scenario used throughout: three
// waypoints with segment lengths 10 and 10, one annotation at the
// middle waypoint, then the default-timed tail.
func boundarySchedule() timeline.Schedule {
	m := track.ComputeMetrics([]track.Waypoint{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
	})
	items := []timeline.Item{
		{
			ID:              "a1",
			Kind:            timeline.KindAnnotation,
			Order:           1,
			PathIndex:       1,
			SegmentDuration: f(2),
			PauseDuration:   f(1),
		},
	}
	return timeline.Build(m, items, timeline.Defaults{Segment: 3, Pause: 1.5, Area: 1})
}

func noFlash() Flash {
	return Flash{}
}

func TestResolveBoundaryScenario(t *testing.T) {
	s := boundarySchedule()

	tests := []struct {
		elapsed      float64
		wantDistance float64
		wantRevealed bool
	}{
		{0, 0, false},
		{1, 5, false},
		{2, 10, true},     // Wait starts, annotation reveals immediately
		{2.5, 10, true},   // Mid wait, distance frozen
		{5, 16.667, true}, // Two thirds through the tail draw
		{6, 20, true},     // End of timeline
		{9, 20, true},     // Past the end
	}

	for _, tt := range tests {
		st := Resolve(s, noFlash(), tt.elapsed)
		if abs(st.CurrentDistance-tt.wantDistance) > 0.01 {
			t.Errorf("At t=%f: expected distance %f, got %f", tt.elapsed, tt.wantDistance, st.CurrentDistance)
		}
		if st.RevealedAnnotations["a1"] != tt.wantRevealed {
			t.Errorf("At t=%f: expected revealed=%v, got %v", tt.elapsed, tt.wantRevealed, st.RevealedAnnotations["a1"])
		}
		if st.Flashing {
			t.Errorf("At t=%f: unexpected flashing", tt.elapsed)
		}
	}
}

func TestResolveDistanceConservation(t *testing.T) {
	s := boundarySchedule()

	// Exactly at and past the end the distance is exactly the path length
	for _, elapsed := range []float64{6, 6.0001, 7, 100} {
		st := Resolve(s, noFlash(), elapsed)
		if st.CurrentDistance != s.TotalLength {
			t.Errorf("At t=%f: expected exact distance %f, got %f", elapsed, s.TotalLength, st.CurrentDistance)
		}
	}
}

func TestResolveFlashPrefix(t *testing.T) {
	s := boundarySchedule()
	flash := Flash{Enabled: true, Duration: 0.5}

	st := Resolve(s, flash, 0.3)
	if !st.Flashing {
		t.Error("Expected flashing at t=0.3")
	}
	if st.CurrentDistance != 0 {
		t.Errorf("Expected distance 0 while flashing, got %f", st.CurrentDistance)
	}
	if len(st.RevealedAnnotations) != 0 || len(st.RevealedAreas) != 0 {
		t.Error("Expected nothing revealed while flashing")
	}

	// Negative elapsed is still inside the flash window
	st = Resolve(s, flash, -1)
	if !st.Flashing {
		t.Error("Expected flashing for negative elapsed")
	}

	// From the flash boundary on, the timeline plays shifted by the
	// flash duration
	for _, tt := range []float64{0, 0.3, 1, 2.5, 5, 6} {
		shifted := Resolve(s, flash, tt+0.5)
		plain := Resolve(s, noFlash(), tt)
		if shifted.Flashing {
			t.Errorf("At t=%f: unexpected flashing after prefix", tt+0.5)
		}
		if abs(shifted.CurrentDistance-plain.CurrentDistance) > 1e-9 {
			t.Errorf("At t=%f: expected distance %f, got %f", tt+0.5, plain.CurrentDistance, shifted.CurrentDistance)
		}
		if !sameSet(shifted.RevealedAnnotations, plain.RevealedAnnotations) {
			t.Errorf("At t=%f: revealed annotations diverge from unshifted timeline", tt+0.5)
		}
	}
}

func TestResolveNegativeElapsed(t *testing.T) {
	s := boundarySchedule()

	st := Resolve(s, noFlash(), -2)
	if st.Flashing {
		t.Error("Unexpected flashing without flash prefix")
	}
	if st.CurrentDistance != 0 || len(st.RevealedAnnotations) != 0 || len(st.RevealedAreas) != 0 {
		t.Error("Expected zero state for negative elapsed")
	}
}

func TestResolveMonotonicReveal(t *testing.T) {
	m := track.ComputeMetrics([]track.Waypoint{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	})
	items := []timeline.Item{
		{ID: "a1", Kind: timeline.KindAnnotation, Order: 1, PathIndex: 1},
		{ID: "z1", Kind: timeline.KindArea, Order: 2, Polygon: []track.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}},
		{ID: "a2", Kind: timeline.KindAnnotation, Order: 3, PathIndex: 3},
		{ID: "z2", Kind: timeline.KindArea, Order: 3.5},
	}
	s := timeline.Build(m, items, timeline.Defaults{Segment: 1, Pause: 0.5, Area: 0.25})
	flash := Flash{Enabled: true, Duration: 0.5}

	prevAnnotations := map[string]bool{}
	prevAreas := map[string]bool{}
	for elapsed := -0.5; elapsed <= SessionLength(s, flash)+1; elapsed += 0.05 {
		st := Resolve(s, flash, elapsed)
		if !containsAll(st.RevealedAnnotations, prevAnnotations) {
			t.Fatalf("At t=%f: revealed annotations shrank", elapsed)
		}
		if !containsAll(st.RevealedAreas, prevAreas) {
			t.Fatalf("At t=%f: revealed areas shrank", elapsed)
		}
		prevAnnotations = st.RevealedAnnotations
		prevAreas = st.RevealedAreas
	}

	// By the end everything is revealed
	if len(prevAnnotations) != 2 || len(prevAreas) != 2 {
		t.Errorf("Expected 2 annotations and 2 areas revealed at the end, got %d and %d", len(prevAnnotations), len(prevAreas))
	}
}

func TestResolveIdempotent(t *testing.T) {
	s := boundarySchedule()
	flash := Flash{Enabled: true, Duration: 0.5}

	for _, elapsed := range []float64{-1, 0, 0.3, 0.5, 1.7, 3.2, 6.5, 10} {
		a := Resolve(s, flash, elapsed)
		b := Resolve(s, flash, elapsed)
		if a.CurrentDistance != b.CurrentDistance || a.Flashing != b.Flashing {
			t.Errorf("At t=%f: repeated resolve diverged", elapsed)
		}
		if !sameSet(a.RevealedAnnotations, b.RevealedAnnotations) || !sameSet(a.RevealedAreas, b.RevealedAreas) {
			t.Errorf("At t=%f: repeated resolve revealed different ids", elapsed)
		}
	}
}

func TestResolveDrawMonotonic(t *testing.T) {
	s := boundarySchedule()

	// Sample inside the first draw event [0, 2)
	prev := -1.0
	for elapsed := 0.0; elapsed < 2; elapsed += 0.01 {
		st := Resolve(s, noFlash(), elapsed)
		if st.CurrentDistance < prev {
			t.Fatalf("At t=%f: distance regressed from %f to %f", elapsed, prev, st.CurrentDistance)
		}
		prev = st.CurrentDistance
	}
}

func TestResolveGapTolerated(t *testing.T) {
	// Hand-built schedule with a hole between the events; the resolver
	// falls back to distance 0 rather than guessing
	s := timeline.Schedule{
		Events: []timeline.Event{
			{Type: timeline.EventDraw, Start: 0, Duration: 1, StartDistance: 0, EndDistance: 10},
			{Type: timeline.EventWait, Start: 2, Duration: 1, StartDistance: 10, EndDistance: 10, ItemID: "a1"},
		},
		TotalDuration: 3,
		TotalLength:   10,
	}

	st := Resolve(s, noFlash(), 1.5)
	if st.CurrentDistance != 0 {
		t.Errorf("Expected distance 0 inside gap, got %f", st.CurrentDistance)
	}
	if st.RevealedAnnotations["a1"] {
		t.Error("Annotation revealed before its event started")
	}
}

func TestResolveZeroDurationEvents(t *testing.T) {
	s := timeline.Schedule{
		Events: []timeline.Event{
			{Type: timeline.EventDraw, Start: 0, Duration: 0, StartDistance: 0, EndDistance: 0},
			{Type: timeline.EventWait, Start: 0, Duration: 0, StartDistance: 0, EndDistance: 0, ItemID: "a1"},
			{Type: timeline.EventDraw, Start: 0, Duration: 2, StartDistance: 0, EndDistance: 10},
		},
		TotalDuration: 2,
		TotalLength:   10,
	}

	// Zero-duration events are passed instantly, never active
	if _, ok := ActiveEvent(s, 0); !ok {
		t.Fatal("Expected the nonzero draw to be active at t=0")
	}
	st := Resolve(s, noFlash(), 0)
	if !st.RevealedAnnotations["a1"] {
		t.Error("Expected zero-duration wait to reveal instantly")
	}
	if st.CurrentDistance != 0 {
		t.Errorf("Expected distance 0 at t=0, got %f", st.CurrentDistance)
	}
}

func TestActiveEvent(t *testing.T) {
	s := boundarySchedule()

	ev, ok := ActiveEvent(s, 2.5)
	if !ok || ev.Type != timeline.EventWait {
		t.Errorf("Expected active wait at t=2.5, got %v %s", ok, ev.Type)
	}

	// Event ends are exclusive
	ev, ok = ActiveEvent(s, 2)
	if !ok || ev.Type != timeline.EventWait {
		t.Errorf("Expected wait active at its own start, got %v %s", ok, ev.Type)
	}

	if _, ok := ActiveEvent(s, 6); ok {
		t.Error("Expected no active event at the total duration")
	}
}

func TestProgress(t *testing.T) {
	ev := timeline.Event{Type: timeline.EventArea, Start: 2, Duration: 4}

	tests := []struct {
		effective float64
		want      float64
	}{
		{0, 0},
		{2, 0},
		{4, 0.5},
		{6, 1},
		{10, 1},
	}
	for _, tt := range tests {
		if got := Progress(ev, tt.effective); abs(got-tt.want) > 1e-9 {
			t.Errorf("Progress at %f: expected %f, got %f", tt.effective, tt.want, got)
		}
	}

	zero := timeline.Event{Type: timeline.EventWait, Start: 2}
	if got := Progress(zero, 2); got != 1 {
		t.Errorf("Expected zero-duration event complete at its start, got %f", got)
	}
	if got := Progress(zero, 1); got != 0 {
		t.Errorf("Expected 0 before the event, got %f", got)
	}
}

func TestSessionLength(t *testing.T) {
	s := boundarySchedule()

	if got := SessionLength(s, noFlash()); got != 6 {
		t.Errorf("Expected session length 6, got %f", got)
	}
	if got := SessionLength(s, Flash{Enabled: true, Duration: 0.5}); got != 6.5 {
		t.Errorf("Expected session length 6.5 with flash, got %f", got)
	}
}

func sameSet(a, b map[string]bool) bool {
	return containsAll(a, b) && containsAll(b, a)
}

func containsAll(sup, sub map[string]bool) bool {
	for id := range sub {
		if !sup[id] {
			return false
		}
	}
	return true
}

func f(v float64) *float64 {
	return &v
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
