package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors is the spinner's color cycle.
var GradientColors = []lipgloss.Color{"5", "4", "6", "2"}

// DisableColors switches all rendering to plain text.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// StatusColor maps a host or refresh status to its color.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "healthy", "ok", "allowed":
		return ColorSuccess
	case "unreachable", "error":
		return ColorError
	case "failed", "cooling", "locked":
		return ColorWarning
	default:
		return ColorMuted
	}
}
