package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

var fixedNow = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, opts Options) (*gin.Engine, *journal.SQLite) {
	t.Helper()
	store, err := journal.NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	seed := []journal.Trade{
		journal.NewTrade("AAPL", journal.Long, 100, 110, 10, "2024-01-10"),
		journal.NewTrade("MSFT", journal.Long, 50, 46, 10, "2024-01-12"),
		journal.NewTrade("TSLA", journal.Short, 20, 18, 10, "2024-01-12"),
	}
	seed[0].StopLoss = journal.Float(95)
	seed[0].TakeProfit = journal.Float(120)
	seed[0].Setup = "Breakout"
	for i, tr := range seed {
		tr.ID = []string{"t1", "t2", "t3"}[i]
		_, err := store.Create(context.Background(), tr)
		require.NoError(t, err)
	}

	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return New(store, opts), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, Options{})
	w := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListTrades(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	w := do(t, h, http.MethodGet, "/trades", nil)
	require.Equal(t, http.StatusOK, w.Code)
	trades := decode[[]journal.Trade](t, w)
	require.Len(t, trades, 3)
	assert.Equal(t, "t1", trades[0].ID)

	w = do(t, h, http.MethodGet, "/trades?from=2024-01-11&to=2024-01-13", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]journal.Trade](t, w), 2)

	w = do(t, h, http.MethodGet, "/trades?from=2024-01-11", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/trades?from=bad&to=2024-01-13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTradesSearch(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no query", "/trades", []string{"t1", "t2", "t3"}},
		{"symbol", "/trades?q=tsl", []string{"t3"}},
		{"setup ignores case", "/trades?q=BREAK", []string{"t1"}},
		{"default setup", "/trades?q=other", []string{"t2", "t3"}},
		{"within range", "/trades?q=msft&from=2024-01-11&to=2024-01-13", []string{"t2"}},
		{"no match", "/trades?q=eurusd", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			ids := []string{}
			for _, tr := range decode[[]journal.Trade](t, w) {
				ids = append(ids, tr.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCreateTradeDerivesPnL(t *testing.T) {
	h, store := newTestServer(t, Options{})

	w := do(t, h, http.MethodPost, "/trades", map[string]any{
		"symbol":     "nvda",
		"direction":  "long",
		"entryPrice": 10,
		"exitPrice":  12,
		"quantity":   5,
		"date":       "2024-01-20",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[journal.Trade](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "NVDA", created.Symbol)
	assert.InDelta(t, 10.0, created.PnL, 1e-9)

	got, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateTradeExplicitPnL(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	w := do(t, h, http.MethodPost, "/trades", map[string]any{
		"symbol":     "NVDA",
		"direction":  "SHORT",
		"entryPrice": 10,
		"exitPrice":  12,
		"quantity":   5,
		"pnl":        -12.5,
		"date":       "2024-01-20",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.InDelta(t, -12.5, decode[journal.Trade](t, w).PnL, 1e-9)
}

func TestCreateTradeErrors(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	tests := []struct {
		name string
		body any
		code int
		want string
	}{
		{
			name: "missing symbol",
			body: map[string]any{"direction": "LONG", "entryPrice": 1, "exitPrice": 2, "quantity": 1, "date": "2024-01-01"},
			code: http.StatusBadRequest,
			want: "symbol",
		},
		{
			name: "bad direction",
			body: map[string]any{"symbol": "X", "direction": "UP", "entryPrice": 1, "exitPrice": 2, "quantity": 1, "date": "2024-01-01"},
			code: http.StatusBadRequest,
			want: "direction",
		},
		{
			name: "bad date",
			body: map[string]any{"symbol": "X", "direction": "LONG", "entryPrice": 1, "exitPrice": 2, "quantity": 1, "date": "01/02/2024"},
			code: http.StatusBadRequest,
			want: "date",
		},
		{
			name: "duplicate id",
			body: map[string]any{"id": "t1", "symbol": "X", "direction": "LONG", "entryPrice": 1, "exitPrice": 2, "quantity": 1, "date": "2024-01-01"},
			code: http.StatusConflict,
			want: "already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/trades", tt.body)
			assert.Equal(t, tt.code, w.Code)
			body := decode[map[string]string](t, w)
			assert.Contains(t, body["error"], tt.want)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/trades", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetUpdateDeleteTrade(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	w := do(t, h, http.MethodGet, "/trades/t1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AAPL", decode[journal.Trade](t, w).Symbol)

	w = do(t, h, http.MethodGet, "/trades/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPut, "/trades/t1", map[string]any{
		"id":         "ignored",
		"symbol":     "AAPL",
		"direction":  "LONG",
		"entryPrice": 100,
		"exitPrice":  105,
		"quantity":   10,
		"date":       "2024-01-10",
		"notes":      "cut early",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/trades/t1", nil)
	updated := decode[journal.Trade](t, w)
	assert.InDelta(t, 50.0, updated.PnL, 1e-9)
	assert.Equal(t, "cut early", updated.Notes)
	assert.Nil(t, updated.StopLoss)

	w = do(t, h, http.MethodPut, "/trades/missing", map[string]any{
		"symbol": "X", "direction": "LONG", "entryPrice": 1, "exitPrice": 2, "quantity": 1, "date": "2024-01-01",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodDelete, "/trades/t2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, "/trades/t2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, h, http.MethodDelete, "/trades/t2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTradeRisk(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	w := do(t, h, http.MethodGet, "/trades/t1/risk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[tradeRiskResponse](t, w)
	assert.Equal(t, analytics.FiniteRatio(4), resp.RewardToRisk)
	assert.Equal(t, "1 : 4.00", resp.Display)
	assert.Equal(t, analytics.FiniteRatio(2), resp.RMultiple)
	require.NotNil(t, resp.RiskAmount)
	assert.InDelta(t, 50.0, *resp.RiskAmount, 1e-9)

	w = do(t, h, http.MethodGet, "/trades/t2/risk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[tradeRiskResponse](t, w)
	assert.True(t, resp.RewardToRisk.IsNotApplicable())
	assert.Equal(t, "n/a", resp.Display)
	assert.Nil(t, resp.RiskAmount)
}

func TestStats(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	w := do(t, h, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Window  string            `json:"window"`
		Summary analytics.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "all", resp.Window)
	assert.Equal(t, 3, resp.Summary.TotalTrades)
	assert.InDelta(t, 80.0, resp.Summary.NetPnL, 1e-9)
	assert.Equal(t, 2, resp.Summary.WinCount)
	assert.Equal(t, analytics.FiniteRatio(3), resp.Summary.ProfitFactor)

	w = do(t, h, http.MethodGet, "/stats?window=30d", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "30d", resp.Window)
	assert.Equal(t, 3, resp.Summary.TotalTrades)

	w = do(t, h, http.MethodGet, "/stats?window=7y", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEquity(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	w := do(t, h, http.MethodGet, "/equity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Points      []analytics.EquityPoint `json:"points"`
		Final       float64                 `json:"final"`
		MaxDrawdown float64                 `json:"maxDrawdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Points, 3)
	assert.Equal(t, "Jan 10", resp.Points[0].Label)
	assert.InDelta(t, 100.0, resp.Points[0].Value, 1e-9)
	assert.InDelta(t, 60.0, resp.Points[1].Value, 1e-9)
	assert.InDelta(t, 80.0, resp.Final, 1e-9)
	assert.InDelta(t, 40.0, resp.MaxDrawdown, 1e-9)
}

func TestCalendarAndHeatmap(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	w := do(t, h, http.MethodGet, "/calendar?year=2024&month=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Calendar analytics.Calendar     `json:"calendar"`
		Summary  analytics.MonthSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Calendar.Days, 31)
	day12 := resp.Calendar.Days[11]
	assert.Equal(t, "2024-01-12", day12.Date)
	assert.Equal(t, 2, day12.Count)
	assert.InDelta(t, -20.0, day12.PnL, 1e-9)
	assert.Nil(t, resp.Calendar.Days[0].Intensity)
	assert.Equal(t, 3, resp.Summary.Trades)
	assert.InDelta(t, 80.0, resp.Summary.PnL, 1e-9)

	// defaults to the current month
	w = do(t, h, http.MethodGet, "/calendar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2024-01-01", resp.Calendar.From)

	for _, q := range []string{"month=13", "month=x", "year=abc"} {
		w = do(t, h, http.MethodGet, "/calendar?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	w = do(t, h, http.MethodGet, "/heatmap?days=30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cal := decode[analytics.Calendar](t, w)
	assert.Len(t, cal.Days, 30)
	assert.Equal(t, "2024-01-02", cal.From)
	assert.Equal(t, "2024-01-31", cal.To)

	w = do(t, h, http.MethodGet, "/heatmap?days=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMonthsAndSetups(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	w := do(t, h, http.MethodGet, "/months", nil)
	require.Equal(t, http.StatusOK, w.Code)
	months := decode[[]analytics.MonthSummary](t, w)
	require.Len(t, months, 1)
	assert.Equal(t, time.January, months[0].Month)

	w = do(t, h, http.MethodGet, "/setups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	setups := decode[[]analytics.SetupStat](t, w)
	require.Len(t, setups, 2)
	assert.Equal(t, "Breakout", setups[0].Setup)
	assert.Equal(t, journal.DefaultSetup, setups[1].Setup)
	assert.Equal(t, 2, setups[1].Count)
}

func TestReport(t *testing.T) {
	h, _ := newTestServer(t, Options{})

	w := do(t, h, http.MethodGet, "/report?window=90d", nil)
	require.Equal(t, http.StatusOK, w.Code)
	perf := decode[analytics.Performance](t, w)
	assert.Equal(t, "90d", perf.Window)
	assert.Equal(t, 3, perf.Summary.TotalTrades)

	w = do(t, h, http.MethodGet, "/report?format=org", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/org")
	assert.Contains(t, w.Body.String(), "* PERFORMANCE REVIEW: all")

	w = do(t, h, http.MethodGet, "/report?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheck(t *testing.T) {
	plan := map[string]any{
		"symbol":    "AAPL",
		"direction": "LONG",
		"quantity":  50,
		"entry":     100,
		"stop":      99,
		"target":    103,
		"equity":    10000,
		"date":      "2024-01-12",
	}

	h, _ := newTestServer(t, Options{})
	w := do(t, h, http.MethodPost, "/check", plan)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := decode[risk.Decision](t, w)
	assert.True(t, d.Allowed, d.Violations)
	assert.InDelta(t, 50.0, d.PlannedRisk, 1e-9)
	assert.Equal(t, analytics.FiniteRatio(3), d.RR)

	strict := risk.DefaultPolicy()
	strict.MaxTradesPerDay = 2
	h, _ = newTestServer(t, Options{Policy: strict})
	w = do(t, h, http.MethodPost, "/check", plan)
	require.Equal(t, http.StatusOK, w.Code)
	d = decode[risk.Decision](t, w)
	assert.False(t, d.Allowed)
	require.Len(t, d.Violations, 1)
	assert.Equal(t, "TOO_MANY_TRADES", d.Violations[0].Code)

	plan["direction"] = "sideways"
	w = do(t, h, http.MethodPost, "/check", plan)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckUsesLocalCalendarDay(t *testing.T) {
	// 20:00 on the 12th in New York is already the 13th in UTC.
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2024, 1, 12, 20, 0, 0, 0, est)

	strict := risk.DefaultPolicy()
	strict.MaxTradesPerDay = 2
	h, _ := newTestServer(t, Options{Policy: strict, Now: func() time.Time { return now }})

	w := do(t, h, http.MethodPost, "/check", map[string]any{
		"symbol":    "AAPL",
		"direction": "LONG",
		"quantity":  1,
		"entry":     100,
		"equity":    10000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := decode[risk.Decision](t, w)
	assert.False(t, d.Allowed)
	require.Len(t, d.Violations, 1)
	assert.Equal(t, "TOO_MANY_TRADES", d.Violations[0].Code)

	w = do(t, h, http.MethodGet, "/heatmap?days=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-01-12", decode[analytics.Calendar](t, w).To)
}
