package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jwulff/coach/internal/coaching"
)

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorBlue    = lipgloss.Color("#5FAFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF00FF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	RecordingDotStyle = lipgloss.NewStyle().
				Foreground(ColorRed).
				Bold(true)

	IdleDotStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	PanelTitleActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorCyan)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	LiveBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ScrollBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	ContextLabelStyle = lipgloss.NewStyle().
				Foreground(ColorCyan)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	MetricValueStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Bold(true)

	FormLabelStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Width(9)
)

// Recommendation styles, one per coaching.Style token.
var recommendationStyles = map[coaching.Style]lipgloss.Style{
	coaching.StyleSuggestion: lipgloss.NewStyle().Foreground(ColorBlue).Bold(true),
	coaching.StyleWarning:    lipgloss.NewStyle().Foreground(ColorYellow).Bold(true),
	coaching.StyleTip:        lipgloss.NewStyle().Foreground(ColorGreen).Bold(true),
	coaching.StyleDefault:    lipgloss.NewStyle().Foreground(ColorGray).Bold(true),
}

// RecommendationStyle returns the badge style for a recommendation token.
func RecommendationStyle(s coaching.Style) lipgloss.Style {
	if st, ok := recommendationStyles[s]; ok {
		return st
	}
	return recommendationStyles[coaching.StyleDefault]
}
