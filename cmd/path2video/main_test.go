package main

import (
	"testing"

	"github.com/ivlev/path2video/internal/timeline"
)

func TestDistanceCell(t *testing.T) {
	tests := []struct {
		name string
		ev   timeline.Event
		want string
	}{
		{"draw range", timeline.Event{Type: timeline.EventDraw, StartDistance: 0, EndDistance: 12.5}, "0.0 → 12.5"},
		{"wait holds", timeline.Event{Type: timeline.EventWait, StartDistance: 12.5, EndDistance: 12.5}, "12.5"},
		{"area holds", timeline.Event{Type: timeline.EventArea, StartDistance: 3.0, EndDistance: 3.0}, "3.0"},
	}

	for _, tt := range tests {
		if got := distanceCell(tt.ev); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestResolveImagePath(t *testing.T) {
	tests := []struct {
		project string
		image   string
		want    string
	}{
		{"projects/tour.yaml", "page.png", "projects/page.png"},
		{"projects/tour.yaml", "/data/page.png", "/data/page.png"},
		{"projects/tour.yaml", "", ""},
		{"tour.yaml", "img/page.png", "img/page.png"},
	}

	for _, tt := range tests {
		if got := resolveImagePath(tt.project, tt.image); got != tt.want {
			t.Errorf("resolveImagePath(%q, %q): expected %q, got %q", tt.project, tt.image, tt.want, got)
		}
	}
}
