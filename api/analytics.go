package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
	"github.com/rustyeddy/tradejournal/risk"
)

// snapshot loads every trade, aborting the request on failure.
func (s *server) snapshot(c *gin.Context) (journal.Snapshot, bool) {
	trades, err := s.store.List(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return nil, false
	}
	return trades, true
}

func (s *server) window(c *gin.Context) (analytics.Window, bool) {
	name := c.Query("window")
	if name == "" {
		return s.opts.DefaultWindow, true
	}
	w, err := analytics.ParseWindow(name)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return analytics.Window{}, false
	}
	return w, true
}

func (s *server) stats(c *gin.Context) {
	w, ok := s.window(c)
	if !ok {
		return
	}
	trades, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"window":  w.Name,
		"summary": analytics.SummarizeWindow(trades, w, s.opts.Now()),
	})
}

func (s *server) equity(c *gin.Context) {
	w, ok := s.window(c)
	if !ok {
		return
	}
	trades, ok := s.snapshot(c)
	if !ok {
		return
	}
	curve := analytics.BuildEquityCurve(trades, w, s.opts.Now())
	c.JSON(http.StatusOK, gin.H{
		"window":      curve.Window,
		"points":      curve.Points,
		"excluded":    curve.Excluded,
		"final":       curve.Final(),
		"maxDrawdown": curve.MaxDrawdown(),
	})
}

func (s *server) calendar(c *gin.Context) {
	now := s.opts.Now()
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	month, err := intQuery(c, "month", int(now.Month()))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if month < 1 || month > 12 {
		fail(c, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}
	trades, ok := s.snapshot(c)
	if !ok {
		return
	}
	cal := analytics.MonthCalendar(trades, year, time.Month(month), s.opts.Heatmap)
	c.JSON(http.StatusOK, gin.H{
		"calendar": cal,
		"summary":  analytics.MonthSummaryFor(trades, year, time.Month(month)),
	})
}

func (s *server) heatmap(c *gin.Context) {
	days, err := intQuery(c, "days", 30)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if days < 1 || days > 366 {
		fail(c, http.StatusBadRequest, "days must be between 1 and 366")
		return
	}
	trades, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.TrailingCalendar(trades, s.opts.Now(), days, s.opts.Heatmap))
}

func (s *server) months(c *gin.Context) {
	trades, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.MonthlySummaries(trades))
}

func (s *server) setups(c *gin.Context) {
	trades, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.BySetup(trades))
}

// report returns the full performance bundle, or an Org document with
// ?format=org.
func (s *server) report(c *gin.Context) {
	w, ok := s.window(c)
	if !ok {
		return
	}
	trades, ok := s.snapshot(c)
	if !ok {
		return
	}
	perf := analytics.Analyze(trades, w, s.opts.Now())

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, perf)
	case "org":
		c.Header("Content-Type", "text/org; charset=utf-8")
		c.Status(http.StatusOK)
		if err := report.WriteOrg(c.Writer, perf); err != nil {
			_ = c.Error(err)
		}
	default:
		fail(c, http.StatusBadRequest, "format must be json or org")
	}
}

type checkRequest struct {
	Symbol    string   `json:"symbol"`
	Direction string   `json:"direction"`
	Quantity  float64  `json:"quantity"`
	Entry     float64  `json:"entry"`
	Stop      *float64 `json:"stop"`
	Target    *float64 `json:"target"`
	Equity    float64  `json:"equity"`
	Date      string   `json:"date"`
}

// check evaluates a planned trade against the risk policy, counting the
// trades already logged on its date.
func (s *server) check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	dir, err := journal.ParseDirection(req.Direction)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	day := analytics.Today(s.opts.Now())
	if req.Date != "" {
		d, ok := analytics.ParseDate(req.Date)
		if !ok {
			fail(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = d
	}
	from := day.Format(journal.DateLayout)
	to := day.AddDate(0, 0, 1).Format(journal.DateLayout)

	today, err := s.store.ListBetween(c.Request.Context(), from, to)
	if err != nil {
		storeError(c, err)
		return
	}
	plan := risk.Plan{
		Symbol:    req.Symbol,
		Direction: dir,
		Quantity:  req.Quantity,
		Entry:     req.Entry,
		Stop:      req.Stop,
		Target:    req.Target,
	}
	c.JSON(http.StatusOK, risk.Evaluate(s.opts.Policy, plan, req.Equity, today))
}
