package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/serialscope/internal/format"
)

// minPlotHeight and minPlotWidth are the smallest chart the panel draws.
const (
	minPlotHeight = 4
	minPlotWidth  = 10
)

// chromeHeight is the number of rows taken by everything except the plot
// body: header, footer, stats row (3) and the plot frame with its X axis (3).
const chromeHeight = 8

// renderPlotPanel renders the live waveform inside a rounded frame.
//
// Layout:
//
//	╭──────────────────────────────────╮
//	│   5.120 ┤      ▂▅█▇▅▂            │
//	│         │   ▂▅███████▅▂      ▂▅█ │
//	│  -1.004 ┤▅█████████████▅▂▂▅█████ │
//	│          -10s                 0s │
//	╰──────────────────────────────────╯
func renderPlotPanel(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	height := app.height - chromeHeight
	if height < minPlotHeight {
		height = minPlotHeight
	}

	if app.lastErr != nil {
		return StylePlot.Width(width - 2).Render(StyleError.Render("window: " + sanitize(app.lastErr.Error())))
	}
	if len(app.window) == 0 {
		return StylePlot.Width(width - 2).Render(StyleDim.Render("waiting for samples..."))
	}

	lo, hi := yRange(app.window)
	top, bottom := format.FormatValue(hi), format.FormatValue(lo)
	labelWidth := max(lipgloss.Width(top), lipgloss.Width(bottom))

	// Frame border (2) + padding (2) + label + " ┤".
	plotWidth := width - 4 - labelWidth - 2
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}

	rows := RenderPlot(app.window, plotWidth, height, colorCyan)
	lines := make([]string, 0, height+1)
	for i, row := range rows {
		label, tick := "", "│"
		switch i {
		case 0:
			label, tick = top, "┤"
		case height - 1:
			label, tick = bottom, "┤"
		}
		lines = append(lines, StyleDim.Render(padLeft(label, labelWidth)+" "+tick)+row)
	}

	oldest := format.FormatSeconds(-app.window[0].X)
	axisLeft := "-" + oldest
	axisRight := "0s"
	gap := plotWidth - lipgloss.Width(axisLeft) - lipgloss.Width(axisRight)
	if gap < 1 {
		gap = 1
	}
	axis := strings.Repeat(" ", labelWidth+2) + axisLeft + strings.Repeat(" ", gap) + axisRight
	lines = append(lines, StyleDim.Render(axis))

	return StylePlot.Render(strings.Join(lines, "\n"))
}

// padLeft right-aligns s in a field of width columns.
func padLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
