package tui

import (
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/serialscope/internal/model"
)

// sparkBlocks is the 8-level block character set for sparklines and plots.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline converts a slice of non-negative values into a block
// sparkline of exactly width characters, scaled against the largest value.
//
// Rules:
//   - Empty values → return width spaces
//   - All zeros → return all '▁' (floor level)
//   - Values longer than width → use last width values
//   - Fewer values than width → left-pad with spaces
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}

	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}

	if len(values) > width {
		values = values[len(values)-width:]
	}

	maxVal := slices.Max(values)

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))
	for _, v := range values {
		var idx int
		if maxVal > 0 {
			idx = int(v / maxVal * 7)
		}
		sb.WriteRune(sparkBlocks[clampLevel(idx, 7)])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// RenderPlot draws points as a filled block chart of width columns and
// height rows, scaled between the smallest and largest Y. Columns are
// bucketed over the X range, so the newest point is always the rightmost
// column. A flat signal is drawn at mid height.
func RenderPlot(points []model.Point, width, height int, color lipgloss.Color) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	rows := make([]string, height)
	if len(points) == 0 {
		for i := range rows {
			rows[i] = strings.Repeat(" ", width)
		}
		return rows
	}

	cols := resample(points, width)
	lo, hi := yRange(points)
	span := hi - lo

	// levels[c] is the column height in eighths of a row.
	total := height * 8
	levels := make([]int, width)
	for c, v := range cols {
		if span == 0 {
			levels[c] = total / 2
			continue
		}
		levels[c] = 1 + int((v-lo)/span*float64(total-1))
	}

	style := lipgloss.NewStyle().Foreground(color)
	for r := 0; r < height; r++ {
		// Row 0 is the top; base is the number of eighths below this row.
		base := (height - 1 - r) * 8
		var sb strings.Builder
		for c := range cols {
			fill := levels[c] - base
			switch {
			case fill <= 0:
				sb.WriteRune(' ')
			case fill >= 8:
				sb.WriteRune('█')
			default:
				sb.WriteRune(sparkBlocks[fill-1])
			}
		}
		rows[r] = style.Render(sb.String())
	}
	return rows
}

// resample reduces points to exactly width column values by averaging the
// points that fall into each X bucket. Empty buckets repeat the previous
// column.
func resample(points []model.Point, width int) []float64 {
	out := make([]float64, width)
	if len(points) == 0 || width <= 0 {
		return out
	}
	first, last := points[0].X, points[len(points)-1].X
	span := last - first

	sums := make([]float64, width)
	counts := make([]int, width)
	for _, p := range points {
		c := width - 1
		if span > 0 {
			c = int((p.X - first) / span * float64(width-1))
		}
		c = clampLevel(c, width-1)
		sums[c] += p.Y
		counts[c]++
	}

	prev := points[0].Y
	for c := range out {
		if counts[c] > 0 {
			prev = sums[c] / float64(counts[c])
		}
		out[c] = prev
	}
	return out
}

// yRange returns the smallest and largest Y in points.
func yRange(points []model.Point) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	return lo, hi
}

// clampLevel clamps v to [0, max].
func clampLevel(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
