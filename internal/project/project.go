package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/path2video/internal/playback"
	"github.com/ivlev/path2video/internal/timeline"
	"github.com/ivlev/path2video/internal/track"
)

// Default timing and styling applied by Normalize
const (
	DefaultSegmentDuration = 2.0
	DefaultPauseDuration   = 1.5
	DefaultAreaDuration    = 1.0
	DefaultFlashDuration   = 0.5
	DefaultPathColor       = "#ff3b30"
	DefaultPathWidth       = 6.0
)

// Project is the single-file snapshot of a tour: the image it runs
// over, the waypoint path, the timed items and the global settings
type Project struct {
	Version   string           `yaml:"version"`
	Image     string           `yaml:"image"`
	Page      int              `yaml:"page,omitempty"`
	Waypoints []track.Waypoint `yaml:"waypoints"`
	Items     []timeline.Item  `yaml:"items"`
	Settings  Settings         `yaml:"settings"`
}

// Settings holds the global defaults and presentation options. The
// flash is on unless the file disables it, so the field is a pointer
// like the per-item duration overrides.
type Settings struct {
	SegmentDuration float64 `yaml:"segment_duration"`
	PauseDuration   float64 `yaml:"pause_duration"`
	AreaDuration    float64 `yaml:"area_duration"`
	FlashEnabled    *bool   `yaml:"flash_enabled,omitempty"`
	FlashDuration   float64 `yaml:"flash_duration"`
	PathColor       string  `yaml:"path_color"`
	PathWidth       float64 `yaml:"path_width"`
	ShareLink       string  `yaml:"share_link,omitempty"`
}

// Read loads and normalizes a project from a YAML file
func Read(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var proj Project
	if err := yaml.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}

	proj.Normalize()
	return &proj, nil
}

// Write saves a project to a YAML file
func Write(proj *Project, path string) error {
	data, err := yaml.Marshal(proj)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Normalize fills in everything a hand-edited file may omit: item ids,
// item kinds and zero-valued settings. Items keep their positions, so
// assigned ids are stable across reads of the same file.
func (p *Project) Normalize() {
	if p.Version == "" {
		p.Version = "1.0"
	}

	for i := range p.Items {
		if p.Items[i].ID == "" {
			p.Items[i].ID = fmt.Sprintf("item-%d", i+1)
		}
		if p.Items[i].Kind == "" {
			if len(p.Items[i].Polygon) > 0 {
				p.Items[i].Kind = timeline.KindArea
			} else {
				p.Items[i].Kind = timeline.KindAnnotation
			}
		}
	}

	if p.Settings.SegmentDuration <= 0 {
		p.Settings.SegmentDuration = DefaultSegmentDuration
	}
	if p.Settings.PauseDuration <= 0 {
		p.Settings.PauseDuration = DefaultPauseDuration
	}
	if p.Settings.AreaDuration <= 0 {
		p.Settings.AreaDuration = DefaultAreaDuration
	}
	if p.Settings.FlashEnabled == nil {
		enabled := true
		p.Settings.FlashEnabled = &enabled
	}
	if p.Settings.FlashDuration <= 0 {
		p.Settings.FlashDuration = DefaultFlashDuration
	}
	if p.Settings.PathColor == "" {
		p.Settings.PathColor = DefaultPathColor
	}
	if p.Settings.PathWidth <= 0 {
		p.Settings.PathWidth = DefaultPathWidth
	}
}

// Defaults returns the global durations in the form the timeline
// builder consumes
func (p *Project) Defaults() timeline.Defaults {
	return timeline.Defaults{
		Segment: p.Settings.SegmentDuration,
		Pause:   p.Settings.PauseDuration,
		Area:    p.Settings.AreaDuration,
	}
}

// Flash returns the flash prefix configuration
func (p *Project) Flash() playback.Flash {
	return playback.Flash{
		Enabled:  p.Settings.FlashEnabled == nil || *p.Settings.FlashEnabled,
		Duration: p.Settings.FlashDuration,
	}
}

// Metrics computes the path metrics for the current waypoints
func (p *Project) Metrics() track.Metrics {
	return track.ComputeMetrics(p.Waypoints)
}

// Item returns the item with the given id
func (p *Project) Item(id string) (timeline.Item, bool) {
	for _, item := range p.Items {
		if item.ID == id {
			return item, true
		}
	}
	return timeline.Item{}, false
}
