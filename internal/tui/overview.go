package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/serialscope/internal/format"
)

// renderOverview renders the stats row under the plot.
// Wide terminals (>= 80 cols): all 5 cards in a single horizontal row.
// Narrow terminals (< 80 cols): cards stacked in rows of 2 (2+2+1).
func renderOverview(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	narrowMode := width < 80

	var cardWidth int
	if narrowMode {
		cardWidth = (width - 4) / 2
		if cardWidth < 10 {
			cardWidth = 10
		}
	} else {
		cardWidth = (width - 10) / 5
		if cardWidth < 8 {
			cardWidth = 8
		}
	}

	// Inner width: card width minus padding (1 char each side).
	barWidth := cardWidth - 4
	if barWidth < 4 {
		barWidth = 4
	}

	st := app.stats

	// Card 1: samples ingested since start or last clear.
	card1 := StyleStatCard.
		Foreground(colorBlue).
		Width(cardWidth).
		Render(format.FormatNumber(st.TotalWritten) + "\nSamples")

	// Card 2: buffer fill with mini bar.
	var fill float64
	if st.Capacity > 0 {
		fill = float64(st.Retained) / float64(st.Capacity) * 100
	}
	card2 := StyleStatCard.
		Foreground(colorPurple).
		Width(cardWidth).
		Render(format.FormatPercent(fill) + "\n" + renderMiniBar(fill, barWidth) + "\nBuffer")

	// Card 3: estimated rate with the history of significant changes.
	rates := make([]float64, 0, app.rateHistory.Len())
	for _, s := range app.rateHistory.SnapshotRange(app.rateHistory.Len()) {
		rates = append(rates, s.Value)
	}
	card3 := StyleStatCard.
		Foreground(colorGreen).
		Width(cardWidth).
		Render(format.FormatRate(st.RateHz) + "\n" + RenderSparkline(rates, barWidth, colorGreen) + "\nRate")

	// Card 4: latest value and the visible range.
	lastStr, rangeStr := "---", "---"
	if st.TotalWritten > 0 {
		lastStr = format.FormatValue(st.LastValue)
	}
	if len(app.window) > 0 {
		lo, hi := yRange(app.window)
		rangeStr = format.FormatValue(lo) + " .. " + format.FormatValue(hi)
	}
	card4 := StyleStatCard.
		Foreground(colorCyan).
		Width(cardWidth).
		Render(lastStr + "\n" + rangeStr + "\nLast / Range")

	// Card 5: recording state.
	recLabel := "idle"
	recStyle := StyleStatCard.Foreground(colorGray)
	if st.Recording {
		recLabel = "● recording"
		recStyle = StyleStatCard.Foreground(colorRed).Bold(true)
	}
	card5 := recStyle.
		Width(cardWidth).
		Render(format.FormatNumber(int64(st.Recorded)) + "\n" + recLabel + "\nRecorded")

	if narrowMode {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, card1, card2)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, card3, card4)
		return lipgloss.JoinVertical(lipgloss.Left, row1, row2, card5)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, card1, card2, card3, card4, card5)
}

// renderMiniBar renders a mini progress bar using Unicode block characters.
// Fills proportionally using "█" (U+2588) for filled and "░" (U+2591) for empty cells.
func renderMiniBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
