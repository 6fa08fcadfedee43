package tui

import (
	"errors"
	"io/fs"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/serialscope/internal/format"
)

// renderHeader renders the top header bar with device, stream state and rate.
//
// Layout:
//
//	left:   device name (or "demo generator")
//	center: colored "● LIVE" / "● WAITING" / "● ENDED  <error>"
//	right:  "REC  12.0 Hz  window 10s"
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := sanitize(app.device)
	if left == "" {
		left = "demo generator"
	}

	status := app.status()
	center := StatusStyle(status).Render("● " + strings.ToUpper(status))
	if status == statusEnded && app.sourceErr != nil {
		center = StyleError.Render("● ENDED  " + classifyError(app.sourceErr))
	}

	right := StyleDim.Render(format.FormatRate(app.stats.RateHz) + "  window " + format.FormatSeconds(app.effective))
	if app.stats.Recording {
		right = StyleRecord.Render("● REC") + "  " + right
	}

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	spacing := innerWidth - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", rightSpacing) +
		right

	return StyleHeader.Width(width).Render(row)
}

// classifyError maps a source error to a short human-readable label.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, fs.ErrNotExist) || strings.Contains(msg, "no such file"):
		return "Device not found"
	case errors.Is(err, fs.ErrPermission) || strings.Contains(msg, "permission denied"):
		return "Permission denied"
	case strings.Contains(msg, "resource busy"):
		return "Device busy"
	case strings.Contains(msg, "input/output error"):
		return "I/O error (device unplugged?)"
	}
	s := sanitize(err.Error())
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}

// sanitize strips terminal escape sequences and control characters from
// text that came off the wire before it reaches the screen.
func sanitize(s string) string {
	var out strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\x1b' {
			i = skipEscape(runes, i)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

// skipEscape returns the index of the last rune of the escape sequence
// starting at runes[i].
func skipEscape(runes []rune, i int) int {
	if i+1 >= len(runes) {
		return i
	}
	switch runes[i+1] {
	case '[': // CSI: parameters then a final byte in 0x40-0x7E
		for j := i + 2; j < len(runes); j++ {
			if runes[j] >= 0x40 && runes[j] <= 0x7E {
				return j
			}
		}
		return len(runes) - 1
	case ']': // OSC: terminated by BEL or ST
		for j := i + 2; j < len(runes); j++ {
			if runes[j] == '\x07' {
				return j
			}
			if runes[j] == '\x1b' && j+1 < len(runes) && runes[j+1] == '\\' {
				return j + 1
			}
		}
		return len(runes) - 1
	default:
		return i + 1
	}
}
