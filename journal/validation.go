package journal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidTrade is wrapped by every ValidationError.
var ErrInvalidTrade = errors.New("invalid trade")

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trade: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidTrade }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Validate checks a trade before it is stored. The analytics engine never
// calls this; it degrades on bad input instead.
func (t Trade) Validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return invalid("symbol", "is required")
	}
	if t.Direction != Long && t.Direction != Short {
		return invalid("direction", fmt.Sprintf("must be LONG or SHORT, got %q", t.Direction))
	}
	if !positive(t.EntryPrice) {
		return invalid("entryPrice", "must be positive")
	}
	if !positive(t.ExitPrice) {
		return invalid("exitPrice", "must be positive")
	}
	if !positive(t.Quantity) {
		return invalid("quantity", "must be positive")
	}
	if math.IsNaN(t.PnL) || math.IsInf(t.PnL, 0) {
		return invalid("pnl", "must be a finite number")
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return invalid("date", fmt.Sprintf("must be YYYY-MM-DD, got %q", t.Date))
	}
	if t.StopLoss != nil && !positive(*t.StopLoss) {
		return invalid("stopLoss", "must be positive when set")
	}
	if t.TakeProfit != nil && !positive(*t.TakeProfit) {
		return invalid("takeProfit", "must be positive when set")
	}
	if t.RiskAmount != nil && (*t.RiskAmount < 0 || math.IsNaN(*t.RiskAmount)) {
		return invalid("riskAmount", "must not be negative")
	}
	return nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
