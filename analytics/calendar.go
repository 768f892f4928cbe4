package analytics

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// HeatmapConfig tunes how day P&L maps to a visual weight.
type HeatmapConfig struct {
	// Floor is the smallest denominator used for normalizing, so a
	// quiet period does not render at full strength.
	Floor        float64 `yaml:"floor" json:"floor"`
	MinIntensity float64 `yaml:"min_intensity" json:"min_intensity"`
	MaxIntensity float64 `yaml:"max_intensity" json:"max_intensity"`
}

func DefaultHeatmap() HeatmapConfig {
	return HeatmapConfig{Floor: 100, MinIntensity: 0.15, MaxIntensity: 0.9}
}

func (h HeatmapConfig) Validate() error {
	if h.Floor < 0 {
		return errors.New("heatmap floor must not be negative")
	}
	if h.MinIntensity < 0 || h.MaxIntensity > 1 || h.MinIntensity > h.MaxIntensity {
		return errors.New("heatmap intensities must satisfy 0 <= min <= max <= 1")
	}
	return nil
}

// Intensity maps a day's P&L onto [MinIntensity, MaxIntensity] relative to
// the largest absolute day in the period.
func (h HeatmapConfig) Intensity(dayPnL, maxAbs float64) float64 {
	den := math.Max(maxAbs, h.Floor)
	if den <= 0 {
		return h.MinIntensity
	}
	return math.Max(h.MinIntensity, math.Min(h.MaxIntensity, math.Abs(dayPnL)/den))
}

// Tone classifies a day for coloring.
type Tone string

const (
	ToneNone Tone = ""
	ToneWin  Tone = "win"
	ToneLoss Tone = "loss"
	ToneFlat Tone = "flat"
)

// DayBucket aggregates one calendar day. Intensity is nil for days
// without trades.
type DayBucket struct {
	Date      string       `json:"date"`
	Weekday   time.Weekday `json:"weekday"`
	PnL       float64      `json:"pnl"`
	Count     int          `json:"count"`
	Tone      Tone         `json:"tone,omitempty"`
	Intensity *float64     `json:"intensity"`
}

// Calendar is a contiguous run of days, first to last inclusive.
type Calendar struct {
	From      string      `json:"from"`
	To        string      `json:"to"`
	Days      []DayBucket `json:"days"`
	MaxAbsPnL float64     `json:"maxAbsPnl"`
	Excluded  int         `json:"excluded"`
}

// Total sums the day buckets.
func (c Calendar) Total() float64 {
	total := 0.0
	for _, d := range c.Days {
		total += d.PnL
	}
	return total
}

// Active returns the days that had at least one trade.
func (c Calendar) Active() []DayBucket {
	var out []DayBucket
	for _, d := range c.Days {
		if d.Count > 0 {
			out = append(out, d)
		}
	}
	return out
}

type dayTotal struct {
	pnl   float64
	count int
}

// byDay sums trades per parsed date inside [from, to].
func byDay(trades []journal.Trade, from, to time.Time) (map[string]dayTotal, int) {
	days := map[string]dayTotal{}
	excluded := 0
	for _, t := range trades {
		d, ok := ParseDate(t.Date)
		if !ok {
			excluded++
			continue
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		key := d.Format(journal.DateLayout)
		dt := days[key]
		dt.pnl = clamp(dt.pnl + contribution(t))
		dt.count++
		days[key] = dt
	}
	return days, excluded
}

func buildCalendar(trades []journal.Trade, from, to time.Time, cfg HeatmapConfig) Calendar {
	days, excluded := byDay(trades, from, to)

	maxAbs := 0.0
	for _, dt := range days {
		maxAbs = math.Max(maxAbs, math.Abs(dt.pnl))
	}

	c := Calendar{
		From:      from.Format(journal.DateLayout),
		To:        to.Format(journal.DateLayout),
		MaxAbsPnL: maxAbs,
		Excluded:  excluded,
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(journal.DateLayout)
		dt := days[key]
		b := DayBucket{
			Date:    key,
			Weekday: d.Weekday(),
			PnL:     dt.pnl,
			Count:   dt.count,
		}
		if dt.count > 0 {
			v := cfg.Intensity(dt.pnl, maxAbs)
			b.Intensity = &v
			b.Tone = tone(dt.pnl)
		}
		c.Days = append(c.Days, b)
	}
	return c
}

func tone(pnl float64) Tone {
	switch {
	case pnl > 0:
		return ToneWin
	case pnl < 0:
		return ToneLoss
	default:
		return ToneFlat
	}
}

// MonthCalendar buckets every day of the given month.
func MonthCalendar(trades []journal.Trade, year int, month time.Month, cfg HeatmapConfig) Calendar {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return buildCalendar(trades, from, to, cfg)
}

// TrailingCalendar buckets the last days days, ending today.
func TrailingCalendar(trades []journal.Trade, now time.Time, days int, cfg HeatmapConfig) Calendar {
	if days < 1 {
		days = 1
	}
	to := Today(now)
	from := to.AddDate(0, 0, -(days - 1))
	return buildCalendar(trades, from, to, cfg)
}

// MonthSummary is the P&L and win rate of one calendar month.
type MonthSummary struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	PnL      float64    `json:"pnl"`
	Trades   int        `json:"trades"`
	WinCount int        `json:"winCount"`
	WinRate  float64    `json:"winRate"`
}

// Label renders the month as "2024-01".
func (m MonthSummary) Label() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func monthOf(trades []journal.Trade, year int, month time.Month) []journal.Trade {
	var out []journal.Trade
	for _, t := range trades {
		d, ok := ParseDate(t.Date)
		if ok && d.Year() == year && d.Month() == month {
			out = append(out, t)
		}
	}
	return out
}

func summarizeMonth(trades []journal.Trade, year int, month time.Month) MonthSummary {
	s := Summarize(trades)
	return MonthSummary{
		Year:     year,
		Month:    month,
		PnL:      s.NetPnL,
		Trades:   s.TotalTrades,
		WinCount: s.WinCount,
		WinRate:  s.WinRate,
	}
}

// MonthSummaryFor summarizes a single month. An empty month has zero P&L
// and a 0 win rate.
func MonthSummaryFor(trades []journal.Trade, year int, month time.Month) MonthSummary {
	return summarizeMonth(monthOf(trades, year, month), year, month)
}

// MonthlySummaries returns one summary for every month that has trades,
// oldest first.
func MonthlySummaries(trades []journal.Trade) []MonthSummary {
	type key struct {
		year  int
		month time.Month
	}
	groups := map[key][]journal.Trade{}
	for _, t := range trades {
		d, ok := ParseDate(t.Date)
		if !ok {
			continue
		}
		k := key{d.Year(), d.Month()}
		groups[k] = append(groups[k], t)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		if a.year != b.year {
			return a.year - b.year
		}
		return int(a.month) - int(b.month)
	})

	out := make([]MonthSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, summarizeMonth(groups[k], k.year, k.month))
	}
	return out
}
