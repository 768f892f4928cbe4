package analytics

import (
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// Performance bundles every derived view of one windowed snapshot.
type Performance struct {
	Window      string         `json:"window"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Summary     Summary        `json:"summary"`
	Equity      EquityCurve    `json:"equity"`
	MaxDrawdown float64        `json:"maxDrawdown"`
	Months      []MonthSummary `json:"months"`
	Setups      []SetupStat    `json:"setups"`
}

// Analyze computes all views over the trades inside w.
func Analyze(trades []journal.Trade, w Window, now time.Time) Performance {
	in := InWindow(trades, w, now)
	curve := BuildEquityCurve(in, WindowAll, now)
	curve.Window = w.Name
	return Performance{
		Window:      w.Name,
		GeneratedAt: now,
		Summary:     Summarize(in),
		Equity:      curve,
		MaxDrawdown: curve.MaxDrawdown(),
		Months:      MonthlySummaries(in),
		Setups:      BySetup(in),
	}
}
