// Package journal holds the trade record, the persistence provider that
// stores trades, and the import/export formats around them.
package journal

import (
	"fmt"
	"strings"
)

// Direction is the side of a trade.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// ParseDirection accepts LONG/SHORT in any case, plus buy/sell.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG", "BUY":
		return Long, nil
	case "SHORT", "SELL":
		return Short, nil
	default:
		return "", fmt.Errorf("unknown direction %q (want LONG|SHORT)", s)
	}
}

// DefaultSetup labels trades recorded without a strategy tag.
const DefaultSetup = "Other"

// DateLayout is the calendar date format trades are attributed with.
const DateLayout = "2006-01-02"

// Trade is one logged entry/exit execution with realized P&L.
type Trade struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Direction  Direction `json:"direction"`
	EntryPrice float64   `json:"entryPrice"`
	ExitPrice  float64   `json:"exitPrice"`
	Quantity   float64   `json:"quantity"`
	PnL        float64   `json:"pnl"`
	Date       string    `json:"date"`

	// Optional risk levels, nil when not recorded.
	StopLoss   *float64 `json:"stopLoss,omitempty"`
	TakeProfit *float64 `json:"takeProfit,omitempty"`
	RiskAmount *float64 `json:"riskAmount,omitempty"`

	Setup     string `json:"setup,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Snapshot is the read-only trade set handed to the analytics engine.
type Snapshot []Trade

// Search returns the trades whose symbol or setup contains q, ignoring case.
// An empty query matches everything. Order is preserved.
func (s Snapshot) Search(q string) Snapshot {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make(Snapshot, 0, len(s))
	for _, t := range s {
		if q == "" ||
			strings.Contains(strings.ToLower(t.Symbol), q) ||
			strings.Contains(strings.ToLower(t.SetupTag()), q) {
			out = append(out, t)
		}
	}
	return out
}

// RealizedPnL is the P&L formula used when a trade is recorded.
func RealizedPnL(dir Direction, entry, exit, qty float64) float64 {
	if dir == Short {
		return (entry - exit) * qty
	}
	return (exit - entry) * qty
}

// NewTrade builds a trade with its P&L derived from prices and quantity.
func NewTrade(symbol string, dir Direction, entry, exit, qty float64, date string) Trade {
	return Trade{
		Symbol:     strings.ToUpper(strings.TrimSpace(symbol)),
		Direction:  dir,
		EntryPrice: entry,
		ExitPrice:  exit,
		Quantity:   qty,
		PnL:        RealizedPnL(dir, entry, exit, qty),
		Date:       date,
	}
}

// SetupTag returns the strategy label, DefaultSetup when empty.
func (t Trade) SetupTag() string {
	if s := strings.TrimSpace(t.Setup); s != "" {
		return s
	}
	return DefaultSetup
}

// Float returns a pointer to v, for the optional price fields.
func Float(v float64) *float64 {
	return &v
}
