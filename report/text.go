// Package report renders derived analytics for a terminal or an Org file.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

const rule = "--------------------------------------------------"

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, "==================================================")
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

func PrintSummary(w io.Writer, s analytics.Summary) {
	heading(w, "Performance Summary")

	fmt.Fprintf(w, "Net P/L:        %.2f\n", s.NetPnL)
	fmt.Fprintf(w, "Win Rate:       %.1f%%\n", s.WinRate)
	fmt.Fprintf(w, "Profit Factor:  %s\n", s.ProfitFactor)
	fmt.Fprintf(w, "Expectancy:     %.2f\n", s.Expectancy)

	section(w, "Trade Statistics")
	fmt.Fprintf(w, "Trades:         %d\n", s.TotalTrades)
	fmt.Fprintf(w, "Wins:           %d\n", s.WinCount)
	fmt.Fprintf(w, "Losses:         %d\n", s.LossCount)
	fmt.Fprintf(w, "Breakeven:      %d\n", s.BreakevenCount)
	fmt.Fprintf(w, "Longs:          %d\n", s.LongCount)
	fmt.Fprintf(w, "Shorts:         %d\n", s.ShortCount)

	section(w, "Trade Ratios")
	fmt.Fprintf(w, "Avg. Win:       %.2f\n", s.AvgWin)
	fmt.Fprintf(w, "Avg. Loss:      -%.2f\n", s.AvgLoss)
	fmt.Fprintf(w, "Reward/Risk:    %s\n", s.AvgRewardToRisk)
	fmt.Fprintf(w, "Largest Win:    %.2f\n", s.LargestWin)
	fmt.Fprintf(w, "Largest Loss:   -%.2f\n", s.LargestLoss)

	if s.Degenerate > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Note: %d trade(s) with zero quantity or invalid P&L scored as breakeven.\n", s.Degenerate)
	}
	fmt.Fprintln(w)
}

func PrintEquity(w io.Writer, c analytics.EquityCurve) {
	heading(w, fmt.Sprintf("Equity Curve (%s)", c.Window))

	if len(c.Points) == 0 {
		fmt.Fprintln(w, "No trades in window.")
	}
	for _, p := range c.Points {
		fmt.Fprintf(w, "%-10s %-8s %12.2f\n", p.Date.Format(journal.DateLayout), p.Label, p.Value)
	}

	section(w, "Totals")
	fmt.Fprintf(w, "Final:          %.2f\n", c.Final())
	fmt.Fprintf(w, "Max Drawdown:   %.2f\n", c.MaxDrawdown())
	if c.Excluded > 0 {
		fmt.Fprintf(w, "Excluded:       %d (unreadable date)\n", c.Excluded)
	}
	fmt.Fprintln(w)
}

func PrintMonths(w io.Writer, months []analytics.MonthSummary) {
	heading(w, "Monthly Summary")
	if len(months) == 0 {
		fmt.Fprintln(w, "No trades.")
	}
	for _, m := range months {
		fmt.Fprintf(w, "%-8s %12.2f  %3d trades  %5.1f%% win\n", m.Label(), m.PnL, m.Trades, m.WinRate)
	}
	fmt.Fprintln(w)
}

func PrintSetups(w io.Writer, setups []analytics.SetupStat) {
	heading(w, "P&L by Setup")
	if len(setups) == 0 {
		fmt.Fprintln(w, "No trades.")
	}
	for _, s := range setups {
		fmt.Fprintf(w, "%-20s %12.2f  %3d trades  %5.1f%% win\n", s.Setup, s.PnL, s.Count, s.WinRate)
	}
	fmt.Fprintln(w)
}

// PrintTrades writes one line per trade.
func PrintTrades(w io.Writer, trades []journal.Trade) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "No trades.")
		return
	}
	fmt.Fprintf(w, "%-26s %-10s %-10s %-5s %12s %12s %10s %10s  %s\n",
		"ID", "DATE", "SYMBOL", "SIDE", "ENTRY", "EXIT", "QTY", "PNL", "SETUP")
	for _, t := range trades {
		fmt.Fprintf(w, "%-26s %-10s %-10s %-5s %12s %12s %10s %10.2f  %s\n",
			t.ID, t.Date, t.Symbol, t.Direction,
			num(t.EntryPrice), num(t.ExitPrice), num(t.Quantity), t.PnL, t.SetupTag())
	}
}

// PrintTrade writes the full record of one trade with its risk figures.
func PrintTrade(w io.Writer, t journal.Trade) {
	heading(w, fmt.Sprintf("Trade %s", t.ID))
	fmt.Fprintf(w, "Symbol:         %s\n", t.Symbol)
	fmt.Fprintf(w, "Direction:      %s\n", t.Direction)
	fmt.Fprintf(w, "Date:           %s\n", t.Date)
	fmt.Fprintf(w, "Entry:          %s\n", num(t.EntryPrice))
	fmt.Fprintf(w, "Exit:           %s\n", num(t.ExitPrice))
	fmt.Fprintf(w, "Quantity:       %s\n", num(t.Quantity))
	fmt.Fprintf(w, "P/L:            %.2f\n", t.PnL)
	fmt.Fprintf(w, "Setup:          %s\n", t.SetupTag())
	if t.Timeframe != "" {
		fmt.Fprintf(w, "Timeframe:      %s\n", t.Timeframe)
	}

	section(w, "Risk")
	fmt.Fprintf(w, "Stop Loss:      %s\n", optional(t.StopLoss))
	fmt.Fprintf(w, "Take Profit:    %s\n", optional(t.TakeProfit))
	fmt.Fprintf(w, "Reward:Risk:    %s\n", risk.ForTrade(t).RR())
	fmt.Fprintf(w, "R-Multiple:     %s\n", risk.RMultiple(t))

	if t.Notes != "" {
		section(w, "Notes")
		fmt.Fprintln(w, strings.TrimSpace(t.Notes))
	}
	fmt.Fprintln(w)
}

// PrintDecision writes the outcome of a pre-trade policy check.
func PrintDecision(w io.Writer, d risk.Decision) {
	heading(w, "Pre-Trade Check")
	verdict := "ALLOWED"
	if !d.Allowed {
		verdict = "BLOCKED"
	}
	fmt.Fprintf(w, "Verdict:        %s\n", verdict)
	fmt.Fprintf(w, "Planned Risk:   %.2f\n", d.PlannedRisk)
	if pct, ok := d.RiskPct.Float(); ok {
		fmt.Fprintf(w, "Risk of Equity: %.2f%%\n", pct*100)
	} else {
		fmt.Fprintf(w, "Risk of Equity: %s\n", d.RiskPct)
	}
	fmt.Fprintf(w, "Reward:Risk:    %s\n", d.RR.RR())

	if len(d.Violations) > 0 {
		section(w, "Violations")
		for _, v := range d.Violations {
			fmt.Fprintf(w, "- [%s] %s\n", v.Code, v.Msg)
		}
	}
	fmt.Fprintln(w)
}

func num(x float64) string {
	return fmt.Sprintf("%g", x)
}

func optional(p *float64) string {
	if p == nil {
		return "-"
	}
	return num(*p)
}
