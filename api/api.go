// Package api serves the journal and its analytics as JSON over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

type Options struct {
	Now           func() time.Time
	Logger        *zap.Logger
	Heatmap       analytics.HeatmapConfig
	DefaultWindow analytics.Window
	Policy        risk.Policy
}

type server struct {
	store journal.Store
	opts  Options
}

// New builds the HTTP handler. Zero Options fields get defaults.
func New(store journal.Store, opts Options) *gin.Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Heatmap == (analytics.HeatmapConfig{}) {
		opts.Heatmap = analytics.DefaultHeatmap()
	}
	if opts.DefaultWindow.Name == "" {
		opts.DefaultWindow = analytics.WindowAll
	}
	if opts.Policy == (risk.Policy{}) {
		opts.Policy = risk.DefaultPolicy()
	}

	s := &server{store: store, opts: opts}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(opts.Logger))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	t := engine.Group("/trades")
	t.GET("", s.listTrades)
	t.POST("", s.createTrade)
	t.GET("/:id", s.getTrade)
	t.PUT("/:id", s.updateTrade)
	t.DELETE("/:id", s.deleteTrade)
	t.GET("/:id/risk", s.tradeRisk)

	engine.GET("/stats", s.stats)
	engine.GET("/equity", s.equity)
	engine.GET("/calendar", s.calendar)
	engine.GET("/heatmap", s.heatmap)
	engine.GET("/months", s.months)
	engine.GET("/setups", s.setups)
	engine.GET("/report", s.report)
	engine.POST("/check", s.check)

	return engine
}
