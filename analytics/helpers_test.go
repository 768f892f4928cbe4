package analytics

import (
	"math/rand"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

func trade(id, date string, pnl float64) journal.Trade {
	return journal.Trade{
		ID:         id,
		Symbol:     "BTCUSD",
		Direction:  journal.Long,
		EntryPrice: 100,
		ExitPrice:  100,
		Quantity:   1,
		PnL:        pnl,
		Date:       date,
	}
}

// exampleTrades is the three-trade journal used across the package tests.
func exampleTrades() []journal.Trade {
	return []journal.Trade{
		trade("A", "2024-01-01", 220),
		trade("B", "2024-01-02", -80),
		trade("C", "2024-01-03", 150),
	}
}

// randomTrades builds a reproducible journal spread over early 2024.
func randomTrades(seed int64, n int) []journal.Trade {
	r := rand.New(rand.NewSource(seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]journal.Trade, n)
	for i := range out {
		d := start.AddDate(0, 0, r.Intn(120))
		pnl := float64(r.Intn(2001) - 1000)
		if r.Intn(10) == 0 {
			pnl = 0
		}
		out[i] = trade(string(rune('a'+i%26)), d.Format(journal.DateLayout), pnl)
	}
	return out
}
