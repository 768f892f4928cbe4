package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
	"github.com/rustyeddy/tradejournal/risk"
)

// equity returns --equity when given, otherwise the latest recorded balance.
func (a *app) equity(ctx context.Context, cmd *cobra.Command, s *journal.SQLite, flagVal float64) (float64, error) {
	if cmd.Flags().Changed("equity") {
		return flagVal, nil
	}
	b, err := s.LatestBalance(ctx)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			return 0, fmt.Errorf("no balance recorded: pass --equity or run 'balance --record'")
		}
		return 0, err
	}
	return b.Equity.InexactFloat64(), nil
}

func newRiskCmd(a *app) *cobra.Command {
	var entry, stop, target float64

	cmd := &cobra.Command{
		Use:   "risk [trade-id]",
		Short: "Show reward:risk for a trade or a set of levels",
		Long: `Show reward:risk and R-multiple for a recorded trade, or reward:risk
for ad-hoc entry/stop/target levels.

Examples:
  tradejournal risk 01HS2X7K9Q
  tradejournal risk --entry 100 --stop 95 --target 115`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				f := cmd.Flags()
				var sp, tp *float64
				if f.Changed("stop") {
					sp = journal.Float(stop)
				}
				if f.Changed("target") {
					tp = journal.Float(target)
				}
				rr := risk.RewardToRisk(entry, sp, tp, journal.Long)
				fmt.Fprintf(out, "Reward:Risk:    %s\n", rr.RR())
				return nil
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			fmt.Fprintf(out, "Trade:          %s %s %s\n", t.ID, t.Symbol, t.Direction)
			fmt.Fprintf(out, "Reward:Risk:    %s\n", risk.ForTrade(t).RR())
			if amt, ok := risk.TradeRisk(t); ok {
				fmt.Fprintf(out, "Risk:           %.2f\n", amt)
			} else {
				fmt.Fprintln(out, "Risk:           n/a")
			}
			fmt.Fprintf(out, "R-Multiple:     %s\n", risk.RMultiple(t))
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&entry, "entry", 0, "entry price")
	f.Float64Var(&stop, "stop", 0, "stop-loss price")
	f.Float64Var(&target, "target", 0, "take-profit price")
	return cmd
}

func newSizeCmd(a *app) *cobra.Command {
	var (
		eq      float64
		riskPct float64
		entry   float64
		stop    float64
		step    float64
	)

	cmd := &cobra.Command{
		Use:   "size",
		Short: "Calculate position size from account risk",
		Long: `Calculate the largest position whose stop-out loss stays within
a fraction of account equity. Equity defaults to the latest recorded balance.

Example:
  tradejournal size --equity 10000 --risk-pct 0.01 --entry 100 --stop 98`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("risk-pct") {
				riskPct = a.cfg.Risk.MaxRiskPct
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			equity, err := a.equity(cmd.Context(), cmd, s, eq)
			if err != nil {
				return err
			}
			res := risk.Size(risk.Inputs{
				Equity:     equity,
				RiskPct:    riskPct,
				EntryPrice: entry,
				StopPrice:  stop,
				Step:       step,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Equity:         %.2f\n", equity)
			fmt.Fprintf(out, "Risk Amount:    %.2f (%.2f%%)\n", res.RiskAmount, riskPct*100)
			fmt.Fprintf(out, "Stop Distance:  %g\n", res.StopDistance)
			fmt.Fprintf(out, "Quantity:       %g\n", res.Quantity)
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&eq, "equity", 0, "account equity (default: latest balance)")
	f.Float64Var(&riskPct, "risk-pct", 0, "fraction of equity to risk (default: risk.max_risk_pct)")
	f.Float64Var(&entry, "entry", 0, "entry price (required)")
	f.Float64Var(&stop, "stop", 0, "stop-loss price (required)")
	f.Float64Var(&step, "step", 1, "smallest tradable quantity")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("stop")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		symbol    string
		direction string
		qty       float64
		entry     float64
		stop      float64
		target    float64
		eq        float64
		date      string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a planned trade against the risk policy",
		Long: `Check a planned trade against the risk rules in the config file:
max risk per trade, minimum reward:risk, trades per day and the daily loss limit.

Example:
  tradejournal check -s AAPL -D long --qty 50 --entry 100 --stop 99 --target 103 --equity 10000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := journal.ParseDirection(direction)
			if err != nil {
				return err
			}
			day := analytics.Today(a.now())
			if date != "" {
				d, ok := analytics.ParseDate(date)
				if !ok {
					return fmt.Errorf("bad --date %q (want YYYY-MM-DD)", date)
				}
				day = d
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			equity, err := a.equity(cmd.Context(), cmd, s, eq)
			if err != nil {
				return err
			}
			today, err := s.ListBetween(cmd.Context(),
				day.Format(journal.DateLayout), day.AddDate(0, 0, 1).Format(journal.DateLayout))
			if err != nil {
				return fmt.Errorf("list trades: %w", err)
			}

			plan := risk.Plan{Symbol: symbol, Direction: dir, Quantity: qty, Entry: entry}
			f := cmd.Flags()
			if f.Changed("stop") {
				plan.Stop = journal.Float(stop)
			}
			if f.Changed("target") {
				plan.Target = journal.Float(target)
			}

			d := risk.Evaluate(a.cfg.Risk, plan, equity, today)
			report.PrintDecision(cmd.OutOrStdout(), d)
			if !d.Allowed {
				return fmt.Errorf("trade blocked by %d rule(s)", len(d.Violations))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&symbol, "symbol", "s", "", "instrument symbol")
	f.StringVarP(&direction, "direction", "D", "", "LONG or SHORT (required)")
	f.Float64VarP(&qty, "qty", "q", 0, "planned quantity (required)")
	f.Float64Var(&entry, "entry", 0, "planned entry price (required)")
	f.Float64Var(&stop, "stop", 0, "planned stop-loss price")
	f.Float64Var(&target, "target", 0, "planned take-profit price")
	f.Float64Var(&eq, "equity", 0, "account equity (default: latest balance)")
	f.StringVar(&date, "date", "", "trade date YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("direction")
	_ = cmd.MarkFlagRequired("qty")
	_ = cmd.MarkFlagRequired("entry")
	return cmd
}
