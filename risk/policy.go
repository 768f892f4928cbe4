package risk

import (
	"errors"

	"github.com/rustyeddy/tradejournal/journal"
)

// Policy holds the personal trading rules a planned trade is checked against.
type Policy struct {
	MaxRiskPct      float64 `yaml:"max_risk_pct" json:"max_risk_pct"`
	MinRR           float64 `yaml:"min_rr" json:"min_rr"`
	MaxDailyLossPct float64 `yaml:"max_daily_loss_pct" json:"max_daily_loss_pct"`
	MaxTradesPerDay int     `yaml:"max_trades_per_day" json:"max_trades_per_day"`
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRiskPct:      0.01,
		MinRR:           1.5,
		MaxDailyLossPct: 0.03,
		MaxTradesPerDay: 5,
	}
}

func (p Policy) Validate() error {
	if p.MaxRiskPct <= 0 || p.MaxRiskPct > 1 {
		return errors.New("max_risk_pct must be in (0, 1]")
	}
	if p.MinRR < 0 {
		return errors.New("min_rr must not be negative")
	}
	if p.MaxDailyLossPct < 0 || p.MaxDailyLossPct > 1 {
		return errors.New("max_daily_loss_pct must be in [0, 1]")
	}
	if p.MaxTradesPerDay < 0 {
		return errors.New("max_trades_per_day must not be negative")
	}
	return nil
}

// Plan is a trade being considered before entry.
type Plan struct {
	Symbol    string
	Direction journal.Direction
	Quantity  float64
	Entry     float64
	Stop      *float64
	Target    *float64
}
