package tui

import "github.com/charmbracelet/lipgloss"

// Color constants for the scope palette.
var (
	colorGreen  = lipgloss.Color("#10b981")
	colorYellow = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorGray   = lipgloss.Color("#6b7280")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorCyan   = lipgloss.Color("#06b6d4")
	colorPurple = lipgloss.Color("#8b5cf6")
	colorWhite  = lipgloss.Color("#f8fafc")
	colorDark   = lipgloss.Color("#1e293b")
	colorAlt    = lipgloss.Color("#0f172a")
)

// Status styles: bold foreground, used for the stream state indicator.
var (
	StyleStatusLive    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	StyleStatusWaiting = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	StyleStatusEnded   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	StyleStatusUnknown = lipgloss.NewStyle().Foreground(colorGray)
)

// StyleHeader is the full-width dark header bar.
var StyleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

// StyleStatCard is the card for the stats row under the plot.
var StyleStatCard = lipgloss.NewStyle().
	Background(colorAlt).
	Foreground(colorWhite).
	Padding(0, 1).
	Margin(0).
	Align(lipgloss.Center)

// StylePlot is the rounded frame around the live plot.
var StylePlot = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorGray).
	Padding(0, 1)

// Utility styles.
var (
	StyleError  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleDim    = lipgloss.NewStyle().Foreground(colorGray)
	StyleRecord = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

// StatusStyle returns the bold+foreground style for a stream state:
// "live", "waiting" or "ended".
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case statusLive:
		return StyleStatusLive
	case statusWaiting:
		return StyleStatusWaiting
	case statusEnded:
		return StyleStatusEnded
	default:
		return StyleStatusUnknown
	}
}
