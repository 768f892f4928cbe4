// Package insight asks a language model for written feedback on recent
// trades. It is advisory only and never feeds back into the metrics.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

const (
	MinTrades        = 3
	DefaultMaxTrades = 20
)

var ErrNotEnoughTrades = fmt.Errorf("at least %d trades are needed for insights", MinTrades)

// Generator turns a prompt into free-form Markdown.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	Gen       Generator
	MaxTrades int
}

func NewService(gen Generator, maxTrades int) *Service {
	if maxTrades <= 0 {
		maxTrades = DefaultMaxTrades
	}
	return &Service{Gen: gen, MaxTrades: maxTrades}
}

// Insights sends the most recent trades and the scalar summary to the
// generator and returns its Markdown.
func (s *Service) Insights(ctx context.Context, trades []journal.Trade) (string, error) {
	if len(trades) < MinTrades {
		return "", ErrNotEnoughTrades
	}
	if s.Gen == nil {
		return "", errors.New("no insight generator configured")
	}

	prompt, err := BuildPrompt(trades, s.MaxTrades)
	if err != nil {
		return "", err
	}
	text, err := s.Gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate insights: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("generate insights: empty response")
	}
	return text, nil
}

type promptTrade struct {
	Symbol string  `json:"symbol"`
	Type   string  `json:"type"`
	PnL    float64 `json:"pnl"`
	Setup  string  `json:"setup"`
	Notes  string  `json:"notes,omitempty"`
	Date   string  `json:"date"`
}

type promptSummary struct {
	TotalTrades  int     `json:"totalTrades"`
	NetPnL       float64 `json:"netPnl"`
	WinRate      float64 `json:"winRate"`
	ProfitFactor string  `json:"profitFactor"`
	Expectancy   float64 `json:"expectancy"`
	AvgWin       float64 `json:"avgWin"`
	AvgLoss      float64 `json:"avgLoss"`
}

// Recent returns up to n trades, newest first. Trades with unreadable
// dates sort as oldest.
func Recent(trades []journal.Trade, n int) []journal.Trade {
	out := slices.Clone(trades)
	slices.SortStableFunc(out, func(a, b journal.Trade) int {
		da, okA := analytics.ParseDate(a.Date)
		db, okB := analytics.ParseDate(b.Date)
		switch {
		case okA && okB:
			return db.Compare(da)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// BuildPrompt renders the request sent to the model.
func BuildPrompt(trades []journal.Trade, maxTrades int) (string, error) {
	recent := Recent(trades, maxTrades)
	rows := make([]promptTrade, 0, len(recent))
	for _, t := range recent {
		rows = append(rows, promptTrade{
			Symbol: t.Symbol,
			Type:   string(t.Direction),
			PnL:    t.PnL,
			Setup:  t.SetupTag(),
			Notes:  t.Notes,
			Date:   t.Date,
		})
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode trades: %w", err)
	}

	s := analytics.Summarize(trades)
	summary, err := json.Marshal(promptSummary{
		TotalTrades:  s.TotalTrades,
		NetPnL:       s.NetPnL,
		WinRate:      s.WinRate,
		ProfitFactor: s.ProfitFactor.String(),
		Expectancy:   s.Expectancy,
		AvgWin:       s.AvgWin,
		AvgLoss:      s.AvgLoss,
	})
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}

	var b strings.Builder
	b.WriteString("Act as a senior institutional risk manager and performance coach.\n")
	b.WriteString("Analyze the following trading journal data and provide actionable feedback.\n\n")
	fmt.Fprintf(&b, "Summary: %s\n", summary)
	fmt.Fprintf(&b, "Recent trades (newest first): %s\n\n", data)
	b.WriteString("Focus on:\n")
	b.WriteString("1. Strategy efficacy: which setups are working and which are not.\n")
	b.WriteString("2. Psychological patterns: from the notes, point out likely biases (FOMO, revenge trading, over-leveraging).\n")
	b.WriteString("3. Recommendations: 3 specific steps to improve performance next week.\n\n")
	b.WriteString("Keep the tone professional, direct and data-driven. Use Markdown formatting.\n")
	return b.String(), nil
}
