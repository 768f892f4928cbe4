package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/insight"
	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/journal"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile  string
	dbPath   string
	logLevel string
	envFile  string

	cfg *config.Config
	log *zap.Logger
	now func() time.Time

	// newGenerator builds the insight backend; tests swap it for a fake.
	newGenerator func(ctx context.Context, cfg config.InsightConfig) (insight.Generator, error)
}

// Execute runs the command line against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now, newGenerator: newGemini})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tradejournal",
		Short: "A trading journal with performance analytics",
		Long: `Tradejournal records closed trades and derives performance analytics from them.

It provides tools for:
  - Logging, editing, importing and exporting trades
  - Summary statistics, equity curves and calendar heatmaps
  - Reward:risk, R-multiples and risk-based position sizing
  - Account balance snapshots from Bybit
  - AI-generated reviews of recent trades
  - A JSON API over all of the above`,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML or JSON)")
	pf.StringVarP(&a.dbPath, "db", "d", "", "path to the SQLite journal (overrides config)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&a.envFile, "env-file", "", "load secrets from this .env file")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDeleteCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newStatsCmd(a),
		newEquityCmd(a),
		newCalendarCmd(a),
		newHeatmapCmd(a),
		newMonthsCmd(a),
		newSetupsCmd(a),
		newReportCmd(a),
		newRiskCmd(a),
		newSizeCmd(a),
		newCheckCmd(a),
		newBalanceCmd(a),
		newInsightsCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads config, env secrets and flag overrides, then builds the logger.
func (a *app) setup() error {
	cfg := config.Default()
	if a.cfgFile != "" {
		loaded, err := config.LoadFromFile(a.cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}
	if err := config.LoadEnv(cfg, envFiles...); err != nil {
		return err
	}

	if a.dbPath != "" {
		cfg.Journal.DBPath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg, a.log = cfg, log
	return nil
}

func (a *app) openStore() (*journal.SQLite, error) {
	s, err := journal.NewSQLite(a.cfg.Journal.DBPath, journal.WithLogger(a.log))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return s, nil
}

// snapshot reads every trade from the journal.
func (a *app) snapshot(ctx context.Context) (journal.Snapshot, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	trades, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return trades, nil
}

// window resolves --window, falling back to the configured default.
func (a *app) window(name string) (analytics.Window, error) {
	if name == "" {
		name = a.cfg.Analytics.DefaultWindow
	}
	return analytics.ParseWindow(name)
}
