package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

type addOptions struct {
	id        string
	symbol    string
	direction string
	entry     float64
	exit      float64
	qty       float64
	pnl       float64
	date      string
	stop      float64
	target    float64
	risk      float64
	setup     string
	timeframe string
	notes     string
}

func newAddCmd(a *app) *cobra.Command {
	var o addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a closed trade",
		Long: `Record a closed trade in the journal.

P&L is derived from the prices unless --pnl is given. The date defaults to today.

Examples:
  tradejournal add --symbol BTCUSD --direction long --entry 42000 --exit 43500 --qty 0.5
  tradejournal add -s AAPL -D short --entry 190 --exit 185 --qty 20 --stop 193 --target 180 --setup Breakout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := journal.ParseDirection(o.direction)
			if err != nil {
				return err
			}
			date := o.date
			if date == "" {
				date = a.now().Format(journal.DateLayout)
			}

			t := journal.NewTrade(o.symbol, dir, o.entry, o.exit, o.qty, date)
			t.ID = o.id
			f := cmd.Flags()
			if f.Changed("pnl") {
				t.PnL = o.pnl
			}
			if f.Changed("stop") {
				t.StopLoss = journal.Float(o.stop)
			}
			if f.Changed("target") {
				t.TakeProfit = journal.Float(o.target)
			}
			if f.Changed("risk") {
				t.RiskAmount = journal.Float(o.risk)
			}
			t.Setup = o.setup
			t.Timeframe = o.timeframe
			t.Notes = o.notes

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			created, err := s.Create(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("add trade: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded %s %s %s pnl=%.2f (%s)\n",
				created.Date, created.Symbol, created.Direction, created.PnL, created.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.id, "id", "", "trade id (default: new ULID)")
	f.StringVarP(&o.symbol, "symbol", "s", "", "instrument symbol (required)")
	f.StringVarP(&o.direction, "direction", "D", "", "LONG or SHORT (required)")
	f.Float64Var(&o.entry, "entry", 0, "entry price (required)")
	f.Float64Var(&o.exit, "exit", 0, "exit price (required)")
	f.Float64VarP(&o.qty, "qty", "q", 0, "quantity (required)")
	f.Float64Var(&o.pnl, "pnl", 0, "realized P&L (default: derived from prices)")
	f.StringVar(&o.date, "date", "", "trade date YYYY-MM-DD (default: today)")
	f.Float64Var(&o.stop, "stop", 0, "stop-loss price")
	f.Float64Var(&o.target, "target", 0, "take-profit price")
	f.Float64Var(&o.risk, "risk", 0, "dollar risk taken")
	f.StringVar(&o.setup, "setup", "", "strategy tag")
	f.StringVar(&o.timeframe, "timeframe", "", "chart timeframe")
	f.StringVar(&o.notes, "notes", "", "free-form notes")
	for _, name := range []string{"symbol", "direction", "entry", "exit", "qty"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var from, to, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades",
		Long: `List trades in date order.

Examples:
  tradejournal list
  tradejournal list --from 2024-01-01 --to 2024-02-01
  tradejournal list -q breakout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (from == "") != (to == "") {
				return fmt.Errorf("--from and --to must be given together")
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var trades journal.Snapshot
			if from != "" {
				trades, err = s.ListBetween(cmd.Context(), from, to)
			} else {
				trades, err = s.List(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("list trades: %w", err)
			}
			report.PrintTrades(cmd.OutOrStdout(), trades.Search(search))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date, inclusive")
	cmd.Flags().StringVar(&to, "to", "", "last date, exclusive")
	cmd.Flags().StringVarP(&search, "search", "q", "", "only trades whose symbol or setup contains this text")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var org bool

	cmd := &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show details of a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			if org {
				fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t))
				return nil
			}
			report.PrintTrade(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().BoolVar(&org, "org", false, "render as an Org-mode entry")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete trade: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
			return nil
		},
	}
}
