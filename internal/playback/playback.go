package playback

import "github.com/ivlev/path2video/internal/timeline"

// Flash configures the white flash shown before the timeline starts
type Flash struct {
	Enabled  bool    `yaml:"enabled"`
	Duration float64 `yaml:"duration"`
}

// State is the instantaneous visual state at one moment of playback.
// Derived on every query, never stored.
type State struct {
	CurrentDistance     float64
	RevealedAnnotations map[string]bool
	RevealedAreas       map[string]bool
	Flashing            bool
}

// Resolve maps an elapsed playback time onto the schedule. Pure and
// stateless: scrubbing, seeking and looping all reduce to calling it
// with a different elapsed value, and identical arguments always give
// identical results.
func Resolve(s timeline.Schedule, flash Flash, elapsed float64) State {
	if flash.Enabled && elapsed < flash.Duration {
		return State{
			RevealedAnnotations: map[string]bool{},
			RevealedAreas:       map[string]bool{},
			Flashing:            true,
		}
	}

	st := State{
		RevealedAnnotations: map[string]bool{},
		RevealedAreas:       map[string]bool{},
	}

	effective := EffectiveTime(flash, elapsed)
	if effective < 0 {
		return st
	}

	// Everything fully elapsed stays revealed for the session
	for _, ev := range s.Events {
		if ev.End() <= effective {
			switch ev.Type {
			case timeline.EventWait:
				st.RevealedAnnotations[ev.ItemID] = true
			case timeline.EventArea:
				st.RevealedAreas[ev.ItemID] = true
			}
		}
	}

	if ev, ok := ActiveEvent(s, effective); ok {
		switch ev.Type {
		case timeline.EventDraw:
			if ev.Duration > 0 {
				t := (effective - ev.Start) / ev.Duration
				st.CurrentDistance = ev.StartDistance + (ev.EndDistance-ev.StartDistance)*t
			} else {
				st.CurrentDistance = ev.EndDistance
			}
		case timeline.EventWait:
			// Revealed the instant its event starts
			st.RevealedAnnotations[ev.ItemID] = true
			st.CurrentDistance = ev.StartDistance
		case timeline.EventArea:
			st.RevealedAreas[ev.ItemID] = true
			st.CurrentDistance = ev.StartDistance
		}
		return st
	}

	if effective >= s.TotalDuration {
		st.CurrentDistance = s.TotalLength
	}
	return st
}

// ActiveEvent returns the event in progress at the given effective
// time. Events never overlap, so at most one matches; zero-duration
// events never do.
func ActiveEvent(s timeline.Schedule, effective float64) (timeline.Event, bool) {
	for _, ev := range s.Events {
		if ev.Start <= effective && effective < ev.End() {
			return ev, true
		}
	}
	return timeline.Event{}, false
}

// EffectiveTime subtracts the flash prefix from an elapsed time
func EffectiveTime(flash Flash, elapsed float64) float64 {
	if flash.Enabled {
		return elapsed - flash.Duration
	}
	return elapsed
}

// SessionLength is the wall-clock length of one playthrough including
// the flash prefix
func SessionLength(s timeline.Schedule, flash Flash) float64 {
	if flash.Enabled {
		return s.TotalDuration + flash.Duration
	}
	return s.TotalDuration
}

// Progress reports how far an event has advanced at the given
// effective time: 0 before it starts, 1 from its end on. Zero-duration
// events complete instantly.
func Progress(ev timeline.Event, effective float64) float64 {
	if effective < ev.Start {
		return 0
	}
	if ev.Duration <= 0 || effective >= ev.End() {
		return 1
	}
	return (effective - ev.Start) / ev.Duration
}
