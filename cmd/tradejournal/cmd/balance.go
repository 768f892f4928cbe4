package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/exchange/bybit"
	"github.com/rustyeddy/tradejournal/journal"
)

func newBalanceCmd(a *app) *cobra.Command {
	var (
		record  bool
		history bool
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Fetch the account balance from Bybit",
		Long: `Fetch total equity of the Bybit unified trading account.

Credentials come from BYBIT_API_KEY and BYBIT_API_SECRET (or a .env file).
With --record the reading is stored in the journal and becomes the default
equity for 'size' and 'check'.

Examples:
  tradejournal balance
  tradejournal balance --record
  tradejournal balance --history`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if history {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				snaps, err := s.ListBalances(cmd.Context())
				if err != nil {
					return err
				}
				if len(snaps) == 0 {
					fmt.Fprintln(out, "No balances recorded.")
				}
				for _, b := range snaps {
					fmt.Fprintf(out, "%s  %14s  %s\n", b.Time.Format(time.RFC3339), b.Equity.StringFixed(2), b.Source)
				}
				return nil
			}

			bc := a.cfg.Exchange.Bybit
			client := &bybit.Client{
				BaseURL:    bc.BaseURL,
				APIKey:     bc.APIKey,
				APISecret:  bc.APISecret,
				RecvWindow: bc.RecvWindow,
				Now:        a.now,
				Logger:     a.log,
			}
			equity, err := client.Balance(cmd.Context())
			if err != nil {
				a.log.Warn("balance fetch failed", zap.Error(err))
				return fmt.Errorf("fetch balance: %w", err)
			}
			fmt.Fprintf(out, "Equity:         %s\n", equity.StringFixed(2))

			if !record {
				return nil
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			err = s.RecordBalance(cmd.Context(), journal.BalanceSnapshot{
				Time:   a.now(),
				Equity: equity,
				Source: "bybit",
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "✓ Balance recorded")
			return nil
		},
	}
	cmd.Flags().BoolVar(&record, "record", false, "store the reading in the journal")
	cmd.Flags().BoolVar(&history, "history", false, "list recorded balances instead of fetching")
	return cmd
}
