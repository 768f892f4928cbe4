package risk

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations,omitempty"`

	PlannedRisk float64         `json:"plannedRisk"`
	RiskPct     analytics.Ratio `json:"riskPct"`
	RR          analytics.Ratio `json:"rr"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Evaluate checks a plan against the policy. today holds the trades already
// taken on the plan's day and feeds the daily circuit breakers.
func Evaluate(p Policy, plan Plan, equity float64, today []journal.Trade) Decision {
	d := Decision{Allowed: true}

	if plan.Entry <= 0 || plan.Stop == nil {
		d.add("NO_STOP_OR_ENTRY", "entry/stop must be set")
		return d
	}
	if plan.Quantity <= 0 {
		d.add("NO_QUANTITY", "quantity must be positive")
		return d
	}

	d.PlannedRisk = PlannedRisk(plan.Quantity, plan.Entry, *plan.Stop)
	d.RiskPct = RiskPct(d.PlannedRisk, equity)
	d.RR = RewardToRisk(plan.Entry, plan.Stop, plan.Target, plan.Direction)

	if pct, ok := d.RiskPct.Float(); !ok {
		d.add("UNKNOWN_EQUITY", "account equity must be positive to size risk")
	} else if pct > p.MaxRiskPct {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("planned risk %.2f%% exceeds max %.2f%%", 100*pct, 100*p.MaxRiskPct))
	}

	switch {
	case d.RR.IsNotApplicable():
		d.add("NO_TARGET", "take-profit must be set to check reward:risk")
	case !d.RR.IsInfinite():
		if rr, _ := d.RR.Float(); rr < p.MinRR {
			d.add("RR_TOO_LOW", fmt.Sprintf("RR %.2f below minimum %.2f", rr, p.MinRR))
		}
	}

	if p.MaxTradesPerDay > 0 && len(today) >= p.MaxTradesPerDay {
		d.add("TOO_MANY_TRADES",
			fmt.Sprintf("trades today %d >= max %d", len(today), p.MaxTradesPerDay))
	}

	// circuit breaker on realized loss for the day
	if equity > 0 && p.MaxDailyLossPct > 0 {
		dayRealized := analytics.Summarize(today).NetPnL
		limit := -p.MaxDailyLossPct * equity
		if dayRealized <= limit {
			d.add("DAILY_LOSS_LIMIT", fmt.Sprintf("day realized %.2f <= limit %.2f", dayRealized, limit))
		}
	}

	return d
}
