package report

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
)

var orgFuncs = template.FuncMap{
	"money": func(x float64) string { return fmt.Sprintf("%.2f", x) },
	"pct":   func(x float64) string { return fmt.Sprintf("%.1f", x) },
	"orNow": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("performance").Funcs(orgFuncs).Parse(PerformanceOrgTemplate))

// WriteOrg renders a performance review as an Org-mode document.
func WriteOrg(w io.Writer, p analytics.Performance) error {
	if err := orgTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render org report: %w", err)
	}
	return nil
}

const PerformanceOrgTemplate = `* PERFORMANCE REVIEW: {{.Window}}
:PROPERTIES:
:WINDOW:       {{.Window}}
:CREATED:      [{{(orNow .GeneratedAt).Format "2006-01-02 Mon 15:04"}}]
:TRADES:       {{.Summary.TotalTrades}}
:WINS:         {{.Summary.WinCount}}
:LOSSES:       {{.Summary.LossCount}}
:NET_PL:       {{money .Summary.NetPnL}}
:WIN_RATE:     {{pct .Summary.WinRate}}
:PROFIT_FAC:   {{.Summary.ProfitFactor}}
:EXPECTANCY:   {{money .Summary.Expectancy}}
:MAX_DD:       {{money .MaxDrawdown}}
:END:

** Results
- Net P/L:          *{{money .Summary.NetPnL}}*
- Win Rate:         *{{pct .Summary.WinRate}}%*
- Profit Factor:    *{{.Summary.ProfitFactor}}*
- Avg Win / Loss:   *{{money .Summary.AvgWin}} / {{money .Summary.AvgLoss}}*
- Reward/Risk:      *{{.Summary.AvgRewardToRisk}}*
- Max Drawdown:     *{{money .MaxDrawdown}}*

** Equity Curve
| Date | Trade | Equity |
|------+-------+--------|
{{- range .Equity.Points }}
| {{.Date.Format "2006-01-02"}} | {{.TradeID}} | {{money .Value}} |
{{- end }}

** Monthly
| Month | P/L | Trades | Win % |
|-------+-----+--------+-------|
{{- range .Months }}
| {{.Label}} | {{money .PnL}} | {{.Trades}} | {{pct .WinRate}} |
{{- end }}

** Setups
| Setup | P/L | Trades | Win % |
|-------+-----+--------+-------|
{{- range .Setups }}
| {{.Setup}} | {{money .PnL}} | {{.Count}} | {{pct .WinRate}} |
{{- end }}

** Review
- 
`
