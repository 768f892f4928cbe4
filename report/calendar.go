package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

var (
	winColor   = mustHex("#10b981")
	lossColor  = mustHex("#ef4444")
	flatColor  = mustHex("#4b5563")
	blankColor = mustHex("#1f2937")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// CellColor is the background for a day: the win or loss color blended
// over the blank cell by the day's intensity.
func CellColor(d analytics.DayBucket) string {
	if d.Intensity == nil {
		return blankColor.Hex()
	}
	var base colorful.Color
	switch d.Tone {
	case analytics.ToneWin:
		base = winColor
	case analytics.ToneLoss:
		base = lossColor
	default:
		base = flatColor
	}
	return blankColor.BlendRgb(base, *d.Intensity).Clamped().Hex()
}

// PrintCalendar draws the days as a Monday-first grid. Colors are only
// emitted when w is a color terminal.
func PrintCalendar(w io.Writer, c analytics.Calendar) {
	r := lipgloss.NewRenderer(w)
	heading(w, fmt.Sprintf("Calendar %s .. %s", c.From, c.To))

	fmt.Fprintln(w, " Mo  Tu  We  Th  Fr  Sa  Su")

	var line strings.Builder
	if len(c.Days) > 0 {
		line.WriteString(strings.Repeat("    ", mondayIndex(c.Days[0].Weekday)))
	}
	for _, d := range c.Days {
		day, _ := time.Parse(journal.DateLayout, d.Date)
		cell := r.NewStyle().
			Background(lipgloss.Color(CellColor(d))).
			Render(fmt.Sprintf("%3d", day.Day()))
		line.WriteString(cell)
		marker := " "
		if d.Count > 0 {
			marker = "*"
		}
		line.WriteString(marker)
		if d.Weekday == time.Sunday {
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	section(w, "Active Days")
	active := c.Active()
	if len(active) == 0 {
		fmt.Fprintln(w, "No trades in period.")
	}
	for _, d := range active {
		fmt.Fprintf(w, "%s %12.2f  %2d trade(s)  intensity %.2f\n", d.Date, d.PnL, d.Count, *d.Intensity)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total:          %.2f\n", c.Total())
	if c.Excluded > 0 {
		fmt.Fprintf(w, "Excluded:       %d (unreadable date)\n", c.Excluded)
	}
	fmt.Fprintln(w)
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
