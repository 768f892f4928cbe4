package analytics

import (
	"math"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// Summary holds the scalar statistics of a trade set. Losses are reported
// as positive magnitudes.
type Summary struct {
	TotalTrades    int     `json:"totalTrades"`
	NetPnL         float64 `json:"netPnl"`
	WinCount       int     `json:"winCount"`
	LossCount      int     `json:"lossCount"`
	BreakevenCount int     `json:"breakevenCount"`
	WinRate        float64 `json:"winRate"`
	AvgWin         float64 `json:"avgWin"`
	AvgLoss        float64 `json:"avgLoss"`
	GrossProfit    float64 `json:"grossProfit"`
	GrossLoss      float64 `json:"grossLoss"`
	LargestWin     float64 `json:"largestWin"`
	LargestLoss    float64 `json:"largestLoss"`
	Expectancy     float64 `json:"expectancy"`
	LongCount      int     `json:"longCount"`
	ShortCount     int     `json:"shortCount"`

	ProfitFactor    Ratio `json:"profitFactor"`
	AvgRewardToRisk Ratio `json:"avgRewardToRisk"`

	// Degenerate counts trades with a non-positive quantity or a
	// non-finite pnl. They are scored as break-even.
	Degenerate int `json:"degenerate"`
}

// Summarize computes the Summary in one pass. The input is not modified.
func Summarize(trades []journal.Trade) Summary {
	var s Summary
	for _, t := range trades {
		s.TotalTrades++
		switch t.Direction {
		case journal.Long:
			s.LongCount++
		case journal.Short:
			s.ShortCount++
		}
		if degenerate(t) {
			s.Degenerate++
		}
		pnl := contribution(t)
		s.NetPnL = clamp(s.NetPnL + pnl)
		switch {
		case pnl > 0:
			s.WinCount++
			s.GrossProfit = clamp(s.GrossProfit + pnl)
			s.LargestWin = math.Max(s.LargestWin, pnl)
		case pnl < 0:
			s.LossCount++
			s.GrossLoss = clamp(s.GrossLoss - pnl)
			s.LargestLoss = math.Max(s.LargestLoss, -pnl)
		default:
			s.BreakevenCount++
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinCount) / float64(s.TotalTrades) * 100
		s.Expectancy = s.NetPnL / float64(s.TotalTrades)
	}
	if s.WinCount > 0 {
		s.AvgWin = s.GrossProfit / float64(s.WinCount)
	}
	if s.LossCount > 0 {
		s.AvgLoss = s.GrossLoss / float64(s.LossCount)
	}

	s.ProfitFactor = Quotient(s.GrossProfit, s.GrossLoss)
	s.AvgRewardToRisk = Quotient(s.AvgWin, s.AvgLoss)
	return s
}

// WinRate is the percentage of winning trades, 0 for an empty set.
func WinRate(trades []journal.Trade) float64 {
	return Summarize(trades).WinRate
}

// InWindow returns the trades inside w, in input order. A bounded window
// drops trades whose date cannot be parsed; WindowAll keeps everything.
func InWindow(trades []journal.Trade, w Window, now time.Time) journal.Snapshot {
	out := journal.Snapshot{}
	for _, t := range trades {
		if !w.Bounded() {
			out = append(out, t)
			continue
		}
		d, ok := ParseDate(t.Date)
		if ok && w.Contains(d, now) {
			out = append(out, t)
		}
	}
	return out
}

// SummarizeWindow is Summarize over the trades inside w.
func SummarizeWindow(trades []journal.Trade, w Window, now time.Time) Summary {
	return Summarize(InWindow(trades, w, now))
}
