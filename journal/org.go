package journal

import (
	"fmt"
	"strings"
)

type orgProp struct {
	key, val string
}

func orgProps(t Trade) []orgProp {
	props := []orgProp{
		{"ID", t.ID},
		{"SYMBOL", t.Symbol},
		{"DIRECTION", string(t.Direction)},
		{"DATE", t.Date},
		{"QUANTITY", f(t.Quantity)},
		{"ENTRY_PRICE", f(t.EntryPrice)},
		{"EXIT_PRICE", f(t.ExitPrice)},
	}
	if t.StopLoss != nil {
		props = append(props, orgProp{"STOP_LOSS", f(*t.StopLoss)})
	}
	if t.TakeProfit != nil {
		props = append(props, orgProp{"TAKE_PROFIT", f(*t.TakeProfit)})
	}
	props = append(props,
		orgProp{"PNL", fmt.Sprintf("%.2f", t.PnL)},
		orgProp{"SETUP", t.SetupTag()},
	)
	if t.Timeframe != "" {
		props = append(props, orgProp{"TIMEFRAME", t.Timeframe})
	}
	return props
}

// FormatTradeOrg renders a Trade as an Org-mode entry. Facts live in the
// PROPERTIES drawer; Review is seeded with the trade notes.
func FormatTradeOrg(t Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", t.Symbol, t.Direction, shortID(t.ID))

	b.WriteString(":PROPERTIES:\n")
	for _, p := range orgProps(t) {
		fmt.Fprintf(&b, ":%s: %s\n", p.key, p.val)
	}
	b.WriteString(":END:\n\n")

	review := ""
	if t.Notes != "" {
		review = strings.ReplaceAll(t.Notes, "\n", "\n  ")
	}
	for _, s := range []struct{ title, body string }{
		{"Thesis", ""},
		{"Execution", ""},
		{"Review", review},
	} {
		fmt.Fprintf(&b, "*** %s\n- %s\n", s.title, s.body)
		if s.title != "Review" {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	entries := make([]string, len(trades))
	for i, t := range trades {
		entries[i] = FormatTradeOrg(t)
	}
	return strings.Join(entries, "\n\n")
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
