package analytics

import (
	"iter"
	"slices"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// EquityPoint is the running P&L after one trade.
type EquityPoint struct {
	Label   string    `json:"label"`
	Date    time.Time `json:"date"`
	TradeID string    `json:"tradeId"`
	Value   float64   `json:"value"`
}

// EquityCurve is one point per trade in date order.
type EquityCurve struct {
	Window   string        `json:"window"`
	Points   []EquityPoint `json:"points"`
	Excluded int           `json:"excluded"`
}

type dated struct {
	date  time.Time
	trade journal.Trade
}

// chronological parses dates and stable-sorts the trades by them. Same-date
// trades keep their input order. Unparseable dates are counted, not returned.
func chronological(trades []journal.Trade, w Window, now time.Time) ([]dated, int) {
	out := make([]dated, 0, len(trades))
	excluded := 0
	for _, t := range trades {
		d, ok := ParseDate(t.Date)
		if !ok {
			excluded++
			continue
		}
		if !w.Contains(d, now) {
			continue
		}
		out = append(out, dated{date: d, trade: t})
	}
	slices.SortStableFunc(out, func(a, b dated) int { return a.date.Compare(b.date) })
	return out, excluded
}

// EquitySeq yields the cumulative P&L over the trades inside w. Each range
// over the sequence recomputes it from the snapshot. Labels carry the year
// once the curve spans more than one.
func EquitySeq(trades []journal.Trade, w Window, now time.Time) iter.Seq[EquityPoint] {
	return func(yield func(EquityPoint) bool) {
		ordered, _ := chronological(trades, w, now)
		layout := "Jan 2"
		if n := len(ordered); n > 0 && ordered[0].date.Year() != ordered[n-1].date.Year() {
			layout = "Jan 2 2006"
		}
		total := 0.0
		for _, d := range ordered {
			total = clamp(total + contribution(d.trade))
			p := EquityPoint{
				Label:   d.date.Format(layout),
				Date:    d.date,
				TradeID: d.trade.ID,
				Value:   total,
			}
			if !yield(p) {
				return
			}
		}
	}
}

// BuildEquityCurve materializes EquitySeq and reports how many trades had
// dates that could not be placed on the curve.
func BuildEquityCurve(trades []journal.Trade, w Window, now time.Time) EquityCurve {
	_, excluded := chronological(trades, w, now)
	points := slices.Collect(EquitySeq(trades, w, now))
	if points == nil {
		points = []EquityPoint{}
	}
	return EquityCurve{Window: w.Name, Points: points, Excluded: excluded}
}

// Values returns just the cumulative values.
func (c EquityCurve) Values() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Value
	}
	return out
}

// Final is the last cumulative value, 0 for an empty curve.
func (c EquityCurve) Final() float64 {
	if len(c.Points) == 0 {
		return 0
	}
	return c.Points[len(c.Points)-1].Value
}

// MaxDrawdown is the largest fall from a running peak, starting from a flat
// account. Returned as a positive amount.
func (c EquityCurve) MaxDrawdown() float64 {
	peak, dd := 0.0, 0.0
	for _, p := range c.Points {
		if p.Value > peak {
			peak = p.Value
		}
		if fall := clamp(peak - p.Value); fall > dd {
			dd = fall
		}
	}
	return dd
}
