package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by every screen.
const (
	colorAccent   = lipgloss.Color("57")
	colorSelected = lipgloss.Color("229")
	colorSubtle   = lipgloss.Color("241")
	colorBorder   = lipgloss.Color("240")
	colorInfo     = lipgloss.Color("39")
	colorCritical = lipgloss.Color("196")
	colorWarning  = lipgloss.Color("214")
	colorOK       = lipgloss.Color("42")
)

//nolint:gochecknoglobals // lipgloss styles are immutable values shared by renderers.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	LabelStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	ValueStyle  = lipgloss.NewStyle().Bold(true)
	InfoStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	SubtleStyle = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)

	CriticalStyle = lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	OKStyle       = lipgloss.NewStyle().Foreground(colorOK)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colorBorder).
				BorderBottom(true).
				Bold(true)
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(colorSelected).
				Background(colorAccent).
				Bold(false)
)

// RiskStyle colors a student risk level.
func RiskStyle(level string) lipgloss.Style {
	switch level {
	case "High":
		return CriticalStyle
	case "Medium":
		return WarningStyle
	case "Low":
		return OKStyle
	default:
		return lipgloss.NewStyle()
	}
}
