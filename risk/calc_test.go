package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

func TestRewardToRisk(t *testing.T) {
	t.Parallel()

	f := journal.Float
	tests := []struct {
		name         string
		entry        float64
		stop, target *float64
		dir          journal.Direction
		want         analytics.Ratio
	}{
		{"long example", 100, f(95), f(115), journal.Long, analytics.FiniteRatio(3)},
		{"short same magnitude", 100, f(105), f(85), journal.Short, analytics.FiniteRatio(3)},
		{"no stop", 100, nil, f(115), journal.Long, analytics.NotApplicableRatio()},
		{"no target", 100, f(95), nil, journal.Long, analytics.NotApplicableRatio()},
		{"neither", 100, nil, nil, journal.Long, analytics.NotApplicableRatio()},
		{"zero risk", 100, f(100), f(110), journal.Long, analytics.InfiniteRatio()},
		{"half", 100, f(90), f(105), journal.Long, analytics.FiniteRatio(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RewardToRisk(tt.entry, tt.stop, tt.target, tt.dir)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.InDelta(t, tt.want.Value, got.Value, 1e-9)
		})
	}
}

func TestForTrade(t *testing.T) {
	t.Parallel()

	tr := journal.NewTrade("BTCUSD", journal.Long, 100, 115, 1, "2024-01-01")
	assert.True(t, ForTrade(tr).IsNotApplicable())

	tr.StopLoss = journal.Float(95)
	tr.TakeProfit = journal.Float(115)
	rr := ForTrade(tr)
	assert.Equal(t, "1 : 3.00", rr.RR())
}

func TestTradeRiskAndRMultiple(t *testing.T) {
	t.Parallel()

	tr := journal.NewTrade("ETHUSD", journal.Long, 100, 110, 2, "2024-01-01")

	_, ok := TradeRisk(tr)
	assert.False(t, ok)
	assert.True(t, RMultiple(tr).IsNotApplicable())

	tr.StopLoss = journal.Float(95)
	risk, ok := TradeRisk(tr)
	require.True(t, ok)
	assert.InDelta(t, 10, risk, 1e-9)
	r, ok := RMultiple(tr).Float()
	require.True(t, ok)
	assert.InDelta(t, 2, r, 1e-9)

	// the recorded dollar risk wins over the stop distance
	tr.RiskAmount = journal.Float(40)
	r, _ = RMultiple(tr).Float()
	assert.InDelta(t, 0.5, r, 1e-9)

	tr.RiskAmount = journal.Float(0)
	assert.True(t, RMultiple(tr).IsInfinite())
	tr.PnL = 0
	assert.Equal(t, analytics.FiniteRatio(0), RMultiple(tr))
}

func TestPlannedRiskAndPct(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 50, PlannedRisk(10, 100, 95), 1e-9)
	assert.InDelta(t, 50, PlannedRisk(10, 95, 100), 1e-9)

	pct, ok := RiskPct(50, 10000).Float()
	require.True(t, ok)
	assert.InDelta(t, 0.005, pct, 1e-12)

	assert.True(t, RiskPct(50, 0).IsNotApplicable())
	assert.True(t, RiskPct(50, -1).IsNotApplicable())
}
