package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/insight"
)

func newGemini(ctx context.Context, cfg config.InsightConfig) (insight.Generator, error) {
	return insight.NewGemini(ctx, cfg.APIKey, cfg.Model)
}

func newInsightsCmd(a *app) *cobra.Command {
	var (
		raw   bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Ask Gemini for a review of recent trades",
		Long: `Send the most recent trades and the summary statistics to Gemini and
print its review. Needs GEMINI_API_KEY and at least three trades.

Examples:
  tradejournal insights
  tradejournal insights --raw > review.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trades, err := a.snapshot(ctx)
			if err != nil {
				return err
			}

			gen, err := a.newGenerator(ctx, a.cfg.Insight)
			if err != nil {
				return fmt.Errorf("insight backend: %w", err)
			}
			svc := insight.NewService(insight.WithLogging(gen, a.log), a.cfg.Insight.MaxTrades)

			text, err := svc.Insights(ctx, trades)
			if err != nil {
				return fmt.Errorf("generate insights: %w", err)
			}

			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return fmt.Errorf("markdown renderer: %w", err)
			}
			rendered, err := r.Render(text)
			if err != nil {
				return fmt.Errorf("render insights: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the Markdown without terminal styling")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width")
	return cmd
}
