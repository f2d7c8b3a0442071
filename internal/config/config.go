package config

type Config struct {
	ProjectPath  string
	OutputVideo  string
	Page         int
	DPI          int
	Width        int
	Height       int
	FPS          int
	Workers      int
	Hold         float64
	Preset       string
	VideoEncoder string
	Quality      int
	Watch        bool
	ShowStats    bool
	BuildVersion string
}
