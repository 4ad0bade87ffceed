package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/habits"
)

const (
	fullBlock  = "█"
	emptyBlock = "░"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Bar draws a horizontal bar of width cells filled in proportion to
// value/max.
func Bar(value, max, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 && value > 0 {
		filled = int(math.Round(float64(value) / float64(max) * float64(width)))
		filled = min(filled, width)
	}
	return strings.Repeat(fullBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

// TallyBars renders one line per category with count and share of total.
// The dominant category is marked.
func TallyBars(t dosha.Tally, width int) string {
	total := t.Total()
	dom := dosha.Dominant(t)
	pct := dosha.Percentages(t)

	var b strings.Builder
	for _, d := range dosha.Canonical() {
		mark := " "
		if d == dom && total > 0 {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %-5s  %s  %2d  %3.0f%%\n", mark, d, Bar(t.Get(d), total, width), t.Get(d), pct[d]*100)
	}
	return b.String()
}

// DeltaBars renders signed per-category changes, scaled to the largest
// absolute change.
func DeltaBars(delta dosha.Tally, width int) string {
	largest := 0
	for _, d := range dosha.Canonical() {
		largest = max(largest, abs(delta.Get(d)))
	}

	var b strings.Builder
	for _, d := range dosha.Canonical() {
		v := delta.Get(d)
		cells := 0
		if largest > 0 {
			cells = int(math.Round(float64(abs(v)) / float64(largest) * float64(width)))
		}
		var bar string
		switch {
		case v > 0:
			bar = strings.Repeat("▲", cells)
		case v < 0:
			bar = strings.Repeat("▼", cells)
		default:
			bar = "="
		}
		fmt.Fprintf(&b, "%-5s  %+3d  %s\n", d, v, bar)
	}
	return b.String()
}

// Sparkline plots values oldest first on one line.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := len(sparkLevels) / 2
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkLevels)-1)))
		}
		out[i] = sparkLevels[idx]
	}
	return string(out)
}

// ActivityGraph renders completion counts as a row of cells, one per day,
// with a weekday header and a legend.
func ActivityGraph(days []habits.DayCount) string {
	if len(days) == 0 {
		return ""
	}
	var head, row strings.Builder
	for _, d := range days {
		head.WriteString(d.Day.Weekday().String()[:1])
		head.WriteString(" ")
		row.WriteString(activityCell(d.Count))
		row.WriteString(" ")
	}

	total := 0
	for _, d := range days {
		total += d.Count
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(head.String(), " "))
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(row.String(), " "))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s to %s  ·  %d completed  ·  · none ░ 1 ▒ 2 ▓ 3 █ 4+\n",
		days[0].Day.Format("Jan 2"), days[len(days)-1].Day.Format("Jan 2"), total)
	return b.String()
}

func activityCell(n int) string {
	switch {
	case n <= 0:
		return "·"
	case n == 1:
		return "░"
	case n == 2:
		return "▒"
	case n == 3:
		return "▓"
	default:
		return "█"
	}
}

// Rule returns a horizontal separator of width cells.
func Rule(width int) string {
	return strings.Repeat("─", width)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
