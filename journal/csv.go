package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"id", "symbol", "direction", "entry_price", "exit_price", "quantity", "pnl", "date",
	"stop_loss", "take_profit", "risk_amount", "setup", "timeframe", "notes",
}

// WriteCSV writes trades with a header row. Absent optional prices are blank.
func WriteCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		err := cw.Write([]string{
			t.ID,
			t.Symbol,
			string(t.Direction),
			f(t.EntryPrice),
			f(t.ExitPrice),
			f(t.Quantity),
			f(t.PnL),
			t.Date,
			optional(t.StopLoss),
			optional(t.TakeProfit),
			optional(t.RiskAmount),
			t.Setup,
			t.Timeframe,
			t.Notes,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses trades written by WriteCSV. Columns are matched by header
// name, so extra or reordered columns are fine. A blank pnl is derived from
// the prices.
func ReadCSV(r io.Reader) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv")
		}
		return nil, err
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"symbol", "direction", "entry_price", "exit_price", "quantity", "date"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("csv missing column %q", req)
		}
	}

	var out []Trade
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := parseRecord(rec, col)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func parseRecord(rec []string, col map[string]int) (Trade, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(get(name), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		return v, nil
	}
	opt := func(name string) (*float64, error) {
		if get(name) == "" {
			return nil, nil
		}
		v, err := num(name)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}

	dir, err := ParseDirection(get("direction"))
	if err != nil {
		return Trade{}, err
	}
	entry, err := num("entry_price")
	if err != nil {
		return Trade{}, err
	}
	exit, err := num("exit_price")
	if err != nil {
		return Trade{}, err
	}
	qty, err := num("quantity")
	if err != nil {
		return Trade{}, err
	}

	t := NewTrade(get("symbol"), dir, entry, exit, qty, get("date"))
	t.ID = get("id")
	if get("pnl") != "" {
		if t.PnL, err = num("pnl"); err != nil {
			return Trade{}, err
		}
	}
	if t.StopLoss, err = opt("stop_loss"); err != nil {
		return Trade{}, err
	}
	if t.TakeProfit, err = opt("take_profit"); err != nil {
		return Trade{}, err
	}
	if t.RiskAmount, err = opt("risk_amount"); err != nil {
		return Trade{}, err
	}
	t.Setup = get("setup")
	t.Timeframe = get("timeframe")
	t.Notes = get("notes")
	return t, nil
}

func optional(p *float64) string {
	if p == nil {
		return ""
	}
	return f(*p)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
