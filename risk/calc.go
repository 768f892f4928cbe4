// Package risk computes per-trade risk figures: reward:risk, dollar risk,
// R-multiples and position sizes.
package risk

import (
	"math"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

// RewardToRisk is |target-entry| / |entry-stop|. Missing levels give
// NotApplicable and a zero stop distance gives Infinite. Direction does not
// change the magnitude; stop and target placement already encode it.
func RewardToRisk(entry float64, stop, target *float64, _ journal.Direction) analytics.Ratio {
	if stop == nil || target == nil {
		return analytics.NotApplicableRatio()
	}
	risk := math.Abs(entry - *stop)
	reward := math.Abs(*target - entry)
	if risk == 0 {
		return analytics.InfiniteRatio()
	}
	return analytics.FiniteRatio(reward / risk)
}

// ForTrade is RewardToRisk over a recorded trade.
func ForTrade(t journal.Trade) analytics.Ratio {
	return RewardToRisk(t.EntryPrice, t.StopLoss, t.TakeProfit, t.Direction)
}

// PlannedRisk is the dollar loss if the stop is hit.
func PlannedRisk(qty, entry, stop float64) float64 {
	return math.Abs(qty) * math.Abs(entry-stop)
}

// TradeRisk returns the dollar risk recorded for a trade, falling back to
// the stop distance. ok is false when neither is known.
func TradeRisk(t journal.Trade) (amount float64, ok bool) {
	if t.RiskAmount != nil {
		return *t.RiskAmount, true
	}
	if t.StopLoss != nil {
		return PlannedRisk(t.Quantity, t.EntryPrice, *t.StopLoss), true
	}
	return 0, false
}

// RMultiple is the realized P&L in units of the risk taken.
func RMultiple(t journal.Trade) analytics.Ratio {
	risk, ok := TradeRisk(t)
	if !ok {
		return analytics.NotApplicableRatio()
	}
	if risk == 0 {
		if t.PnL == 0 {
			return analytics.FiniteRatio(0)
		}
		return analytics.InfiniteRatio()
	}
	return analytics.FiniteRatio(t.PnL / risk)
}

// RiskPct is planned risk as a fraction of equity.
func RiskPct(plannedRisk, equity float64) analytics.Ratio {
	if equity <= 0 {
		return analytics.NotApplicableRatio()
	}
	return analytics.FiniteRatio(plannedRisk / equity)
}
