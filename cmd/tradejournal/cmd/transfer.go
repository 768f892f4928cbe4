package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
)

func newImportCmd(a *app) *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import trades from CSV",
		Long: `Import trades from a CSV file with a header row.

Required columns: symbol, direction, entry_price, exit_price, quantity, date.
A blank pnl is derived from the prices. Use - to read stdin.

Example:
  tradejournal import trades.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open csv: %w", err)
				}
				defer f.Close()
				r = f
			}

			trades, err := journal.ReadCSV(r)
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			imported, skipped := 0, 0
			for _, t := range trades {
				if _, err := s.Create(cmd.Context(), t); err != nil {
					if skipExisting && errors.Is(err, journal.ErrDuplicate) {
						skipped++
						a.log.Debug("skipping existing trade", zap.String("id", t.ID))
						continue
					}
					return fmt.Errorf("import %s %s: %w", t.Date, t.Symbol, err)
				}
				imported++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades", imported)
			if skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d already present)", skipped)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "skip rows whose id is already in the journal")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trades as CSV or Org",
		Long: `Export every trade in the journal.

Examples:
  tradejournal export > trades.csv
  tradejournal export --format org -o journal.org`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if format != "csv" && format != "org" {
				return fmt.Errorf("unknown format %q (want csv|org)", format)
			}
			trades, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("close %s: %w", output, cerr)
					}
				}()
				w = f
			}

			if format == "org" {
				_, err = fmt.Fprintln(w, journal.FormatTradesOrg(trades))
				return err
			}
			return journal.WriteCSV(w, trades)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or org")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
