package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/report"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newStatsCmd(a *app) *cobra.Command {
	var (
		window string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show summary statistics",
		Long: `Show net P&L, win rate, profit factor, expectancy and reward:risk.

Examples:
  tradejournal stats
  tradejournal stats --window 30d --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.window(window)
			if err != nil {
				return err
			}
			trades, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			s := analytics.SummarizeWindow(trades, w, a.now())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			report.PrintSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVarP(&window, "window", "w", "", "30d, 90d or all (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newEquityCmd(a *app) *cobra.Command {
	var (
		window string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "equity",
		Short: "Show the cumulative P&L curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.window(window)
			if err != nil {
				return err
			}
			trades, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			curve := analytics.BuildEquityCurve(trades, w, a.now())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), curve)
			}
			report.PrintEquity(cmd.OutOrStdout(), curve)
			return nil
		},
	}
	cmd.Flags().StringVarP(&window, "window", "w", "", "30d, 90d or all (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newCalendarCmd(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show daily P&L for a month",
		Long: `Show a month of daily P&L as a heatmap grid.

Examples:
  tradejournal calendar
  tradejournal calendar --month 2024-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.now()
			if month != "" {
				parsed, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("bad --month %q (want YYYY-MM)", month)
				}
				m = parsed
			}
			trades, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			cal := analytics.MonthCalendar(trades, m.Year(), m.Month(), a.cfg.Analytics.Heatmap)
			report.PrintCalendar(cmd.OutOrStdout(), cal)

			ms := analytics.MonthSummaryFor(trades, m.Year(), m.Month())
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d trades, %.1f%% win\n", ms.Label(), ms.Trades, ms.WinRate)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "month YYYY-MM (default: current)")
	return cmd
}

func newHeatmapCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Show daily P&L for the last N days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be positive")
			}
			trades, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			cal := analytics.TrailingCalendar(trades, a.now(), days, a.cfg.Analytics.Heatmap)
			report.PrintCalendar(cmd.OutOrStdout(), cal)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "number of days ending today")
	return cmd
}

func newMonthsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "Show P&L per calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			report.PrintMonths(cmd.OutOrStdout(), analytics.MonthlySummaries(trades))
			return nil
		},
	}
}

func newSetupsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setups",
		Short: "Show P&L per strategy setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			report.PrintSetups(cmd.OutOrStdout(), analytics.BySetup(trades))
			return nil
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	var (
		window string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a full performance report",
		Long: `Write every derived view for a window as an Org document or JSON.

Examples:
  tradejournal report --window 90d -o review.org
  tradejournal report --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var write func(io.Writer, analytics.Performance) error
			switch format {
			case "org":
				write = report.WriteOrg
			case "json":
				write = func(w io.Writer, p analytics.Performance) error { return writeJSON(w, p) }
			default:
				return fmt.Errorf("unknown format %q (want org|json)", format)
			}

			w, err := a.window(window)
			if err != nil {
				return err
			}
			trades, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			perf := analytics.Analyze(trades, w, a.now())

			if output == "" {
				return write(cmd.OutOrStdout(), perf)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("close %s: %w", output, cerr)
				}
			}()
			return write(f, perf)
		},
	}
	cmd.Flags().StringVarP(&window, "window", "w", "", "30d, 90d or all (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "org", "org or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
