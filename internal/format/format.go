package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatRate formats a sample rate in Hz with comma-separated thousands and
// one decimal place. Example: 1204.3 → "1,204.3 Hz".
// Non-positive or non-finite rates (nothing measured) return "---".
func FormatRate(hz float64) string {
	if !(hz > 0) || math.IsInf(hz, 0) {
		return "---"
	}
	return formatCommaFloat(hz, 1) + " Hz"
}

// FormatValue formats a sample value with comma-separated thousands and
// three decimal places. Example: -1234.5 → "-1,234.500".
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "---"
	}
	return formatCommaFloat(v, 3)
}

// FormatSeconds formats a window duration compactly.
// Values < 1 s are shown in ms, values < 60 s as seconds with up to one
// decimal place, and longer values as minutes and seconds.
// Example: 0.25 → "250ms", 2.5 → "2.5s", 90 → "1m30s".
func FormatSeconds(s float64) string {
	if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return "---"
	}
	switch {
	case s < 1:
		return fmt.Sprintf("%dms", int(math.Round(s*1000)))
	case s < 60:
		return strconv.FormatFloat(math.Round(s*10)/10, 'f', -1, 64) + "s"
	default:
		total := int(math.Round(s))
		return fmt.Sprintf("%dm%02ds", total/60, total%60)
	}
}

// FormatNumber formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
// Uses strconv.FormatInt directly to avoid abs64 overflow for math.MinInt64.
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		// s starts with "-"; strip it, insert commas, restore sign.
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatPercent formats a percentage with one decimal place.
// Example: 34.5 → "34.5%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// formatCommaFloat formats a float with comma-separated thousands and prec
// decimal places.
func formatCommaFloat(f float64, prec int) string {
	formatted := strconv.FormatFloat(f, 'f', prec, 64)
	// Strip leading minus before inserting commas, then restore it
	sign := ""
	if len(formatted) > 0 && formatted[0] == '-' {
		sign = "-"
		formatted = formatted[1:]
	}
	// Split on decimal point
	parts := strings.SplitN(formatted, ".", 2)
	intPart := insertCommas(parts[0])
	if len(parts) == 2 {
		return sign + intPart + "." + parts[1]
	}
	return sign + intPart
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
