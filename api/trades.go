package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

// tradeRequest is the write payload. A missing pnl is derived from prices.
type tradeRequest struct {
	ID         string   `json:"id"`
	Symbol     string   `json:"symbol"`
	Direction  string   `json:"direction"`
	EntryPrice float64  `json:"entryPrice"`
	ExitPrice  float64  `json:"exitPrice"`
	Quantity   float64  `json:"quantity"`
	PnL        *float64 `json:"pnl"`
	Date       string   `json:"date"`
	StopLoss   *float64 `json:"stopLoss"`
	TakeProfit *float64 `json:"takeProfit"`
	RiskAmount *float64 `json:"riskAmount"`
	Setup      string   `json:"setup"`
	Timeframe  string   `json:"timeframe"`
	Notes      string   `json:"notes"`
}

func (r tradeRequest) trade() (journal.Trade, error) {
	dir, err := journal.ParseDirection(r.Direction)
	if err != nil {
		return journal.Trade{}, &journal.ValidationError{Field: "direction", Reason: err.Error()}
	}
	t := journal.NewTrade(r.Symbol, dir, r.EntryPrice, r.ExitPrice, r.Quantity, r.Date)
	t.ID = r.ID
	if r.PnL != nil {
		t.PnL = *r.PnL
	}
	t.StopLoss = r.StopLoss
	t.TakeProfit = r.TakeProfit
	t.RiskAmount = r.RiskAmount
	t.Setup = r.Setup
	t.Timeframe = r.Timeframe
	t.Notes = r.Notes
	return t, nil
}

func (s *server) bindTrade(c *gin.Context) (journal.Trade, bool) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return journal.Trade{}, false
	}
	t, err := req.trade()
	if err != nil {
		storeError(c, err)
		return journal.Trade{}, false
	}
	return t, true
}

func (s *server) listTrades(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")

	var (
		trades journal.Snapshot
		err    error
	)
	if from != "" || to != "" {
		if from == "" || to == "" {
			fail(c, http.StatusBadRequest, "from and to must be given together")
			return
		}
		if trades, err = s.store.ListBetween(c.Request.Context(), from, to); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
	} else if trades, err = s.store.List(c.Request.Context()); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trades.Search(c.Query("q")))
}

func (s *server) createTrade(c *gin.Context) {
	t, ok := s.bindTrade(c)
	if !ok {
		return
	}
	created, err := s.store.Create(c.Request.Context(), t)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *server) getTrade(c *gin.Context) {
	t, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *server) updateTrade(c *gin.Context) {
	t, ok := s.bindTrade(c)
	if !ok {
		return
	}
	t.ID = c.Param("id")
	if err := s.store.Update(c.Request.Context(), t); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *server) deleteTrade(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type tradeRiskResponse struct {
	ID           string          `json:"id"`
	RewardToRisk analytics.Ratio `json:"rewardToRisk"`
	Display      string          `json:"display"`
	RMultiple    analytics.Ratio `json:"rMultiple"`
	RiskAmount   *float64        `json:"riskAmount"`
}

func (s *server) tradeRisk(c *gin.Context) {
	t, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	rr := risk.ForTrade(t)
	resp := tradeRiskResponse{
		ID:           t.ID,
		RewardToRisk: rr,
		Display:      rr.RR(),
		RMultiple:    risk.RMultiple(t),
	}
	if amt, ok := risk.TradeRisk(t); ok {
		resp.RiskAmount = &amt
	}
	c.JSON(http.StatusOK, resp)
}
