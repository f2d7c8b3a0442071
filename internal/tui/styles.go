package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorAccent   = lipgloss.Color("#FF3B30")
	ColorGreen    = lipgloss.Color("#25A065")
	ColorYellow   = lipgloss.Color("#E5C07B")
	ColorGray     = lipgloss.Color("#626262")
	ColorGrayDim  = lipgloss.Color("#404040")
	ColorWhite    = lipgloss.Color("#FFFFFF")
	ColorOffWhite = lipgloss.Color("#D0D0D0")
	ColorCyan     = lipgloss.Color("#56B6C2")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	TimeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	RevealedStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorYellow)

	PendingStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	CaptionStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorOffWhite)

	FlashStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorYellow)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)
)

// Item markers
const (
	IconRevealed = "✓"
	IconActive   = "◐"
	IconPending  = "○"
	IconPlaying  = "▶"
	IconPaused   = "⏸"
)
