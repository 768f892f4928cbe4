package risk

import "math"

type Inputs struct {
	Equity     float64
	RiskPct    float64 // 0.01 = 1% of equity
	EntryPrice float64
	StopPrice  float64
	Step       float64 // smallest tradable quantity, 1 when zero
}

type Result struct {
	Quantity     float64
	StopDistance float64
	RiskAmount   float64
}

// Size returns the largest quantity, in whole steps, whose stop-out loss
// stays within Equity*RiskPct.
func Size(in Inputs) Result {
	step := in.Step
	if step <= 0 {
		step = 1
	}
	dist := math.Abs(in.EntryPrice - in.StopPrice)
	riskAmt := in.Equity * in.RiskPct

	res := Result{StopDistance: dist, RiskAmount: riskAmt}
	if dist == 0 || riskAmt <= 0 {
		return res
	}
	// tolerate float noise before flooring
	steps := math.Floor(math.Round(riskAmt/dist/step*1e9) / 1e9)
	res.Quantity = steps * step
	return res
}
