package analytics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// ParseDate reads a trade date. Plain YYYY-MM-DD is the normal form; RFC3339
// timestamps are truncated to their calendar date. The result is midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(journal.DateLayout, s); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return civil(ts), true
	}
	return time.Time{}, false
}

// civil drops the clock, keeping the calendar date as seen in t's location.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the calendar date of now in now's own location, as midnight UTC.
// Windows, trailing calendars and daily risk limits all count days from it.
func Today(now time.Time) time.Time {
	return civil(now)
}

// Window selects a trailing period ending today. Days == 0 means unbounded.
type Window struct {
	Name string
	Days int
}

var (
	Window30D = Window{Name: "30d", Days: 30}
	Window90D = Window{Name: "90d", Days: 90}
	WindowAll = Window{Name: "all"}
)

// ParseWindow accepts "30d", "90d", "all" or "" (all).
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "30d":
		return Window30D, nil
	case "90d":
		return Window90D, nil
	case "", "all":
		return WindowAll, nil
	default:
		return Window{}, fmt.Errorf("unknown window %q (want 30d|90d|all)", s)
	}
}

func (w Window) String() string { return w.Name }

// Bounded reports whether the window filters anything.
func (w Window) Bounded() bool { return w.Days > 0 }

// Cutoff is the earliest date inside the window.
func (w Window) Cutoff(now time.Time) time.Time {
	return Today(now).AddDate(0, 0, -w.Days)
}

// Contains reports whether a trade dated d falls inside the window.
func (w Window) Contains(d, now time.Time) bool {
	if !w.Bounded() {
		return true
	}
	return !d.Before(w.Cutoff(now))
}

// degenerate marks trades that cannot contribute a meaningful P&L.
func degenerate(t journal.Trade) bool {
	return t.Quantity <= 0 || math.IsNaN(t.Quantity) || math.IsNaN(t.PnL) || math.IsInf(t.PnL, 0)
}

// clamp pins an overflowing sum to the largest finite float of its sign.
func clamp(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

// contribution is the P&L a trade adds to every aggregate.
func contribution(t journal.Trade) float64 {
	if degenerate(t) {
		return 0
	}
	return t.PnL
}
