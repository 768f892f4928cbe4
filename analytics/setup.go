package analytics

import (
	"slices"
	"strings"

	"github.com/rustyeddy/tradejournal/journal"
)

// SetupStat is the P&L attributed to one strategy label.
type SetupStat struct {
	Setup   string  `json:"setup"`
	PnL     float64 `json:"pnl"`
	Count   int     `json:"count"`
	WinRate float64 `json:"winRate"`
}

// BySetup groups trades by SetupTag, sorted by label.
func BySetup(trades []journal.Trade) []SetupStat {
	groups := map[string][]journal.Trade{}
	for _, t := range trades {
		tag := t.SetupTag()
		groups[tag] = append(groups[tag], t)
	}

	out := make([]SetupStat, 0, len(groups))
	for tag, ts := range groups {
		s := Summarize(ts)
		out = append(out, SetupStat{Setup: tag, PnL: s.NetPnL, Count: s.TotalTrades, WinRate: s.WinRate})
	}
	slices.SortFunc(out, func(a, b SetupStat) int { return strings.Compare(a.Setup, b.Setup) })
	return out
}
