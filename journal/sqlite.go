package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sqlite3 "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// SQLite is the Store backed by a single sqlite file.
type SQLite struct {
	db  *sql.DB
	log *zap.Logger
	ids *id.Generator
}

var _ Store = (*SQLite)(nil)

type Option func(*SQLite)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *SQLite) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDs overrides the generator used for trades created without an id.
func WithIDs(g *id.Generator) Option {
	return func(s *SQLite) { s.ids = g }
}

func NewSQLite(path string, opts ...Option) (*SQLite, error) {
	s := &SQLite{log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s.db = db
	s.log.Debug("journal opened", zap.String("path", path))
	return s, nil
}

const tradeColumns = `trade_id, symbol, direction, entry_price, exit_price, quantity, pnl,
	trade_date, stop_loss, take_profit, risk_amount, setup, timeframe, notes`

func (s *SQLite) Create(ctx context.Context, t Trade) (Trade, error) {
	if t.ID == "" {
		if s.ids != nil {
			t.ID = s.ids.Next()
		} else {
			t.ID = id.New()
		}
	}
	if err := t.Validate(); err != nil {
		return Trade{}, err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, string(t.Direction), t.EntryPrice, t.ExitPrice, t.Quantity, t.PnL,
		t.Date, nullFloat(t.StopLoss), nullFloat(t.TakeProfit), nullFloat(t.RiskAmount),
		t.Setup, t.Timeframe, t.Notes,
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return Trade{}, fmt.Errorf("trade %q %w", t.ID, ErrDuplicate)
		}
		return Trade{}, fmt.Errorf("insert trade: %w", err)
	}

	s.log.Info("trade recorded",
		zap.String("id", t.ID),
		zap.String("symbol", t.Symbol),
		zap.String("date", t.Date),
		zap.Float64("pnl", t.PnL),
	)
	return t, nil
}

// Get returns a single trade by id.
func (s *SQLite) Get(ctx context.Context, tradeID string) (Trade, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)

	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trade{}, fmt.Errorf("trade %q %w", tradeID, ErrNotFound)
		}
		return Trade{}, err
	}
	return t, nil
}

func (s *SQLite) Update(ctx context.Context, t Trade) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE trades SET
			symbol = ?, direction = ?, entry_price = ?, exit_price = ?, quantity = ?, pnl = ?,
			trade_date = ?, stop_loss = ?, take_profit = ?, risk_amount = ?,
			setup = ?, timeframe = ?, notes = ?
		WHERE trade_id = ?`,
		t.Symbol, string(t.Direction), t.EntryPrice, t.ExitPrice, t.Quantity, t.PnL,
		t.Date, nullFloat(t.StopLoss), nullFloat(t.TakeProfit), nullFloat(t.RiskAmount),
		t.Setup, t.Timeframe, t.Notes,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update trade: %w", err)
	}
	if err := expectOne(res, t.ID); err != nil {
		return err
	}
	s.log.Info("trade updated", zap.String("id", t.ID))
	return nil
}

func (s *SQLite) Delete(ctx context.Context, tradeID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if err := expectOne(res, tradeID); err != nil {
		return err
	}
	s.log.Info("trade deleted", zap.String("id", tradeID))
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func expectOne(res sql.Result, tradeID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %q %w", tradeID, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (Trade, error) {
	var (
		t                     Trade
		dir                   string
		stop, target, riskAmt sql.NullFloat64
	)
	err := row.Scan(
		&t.ID,
		&t.Symbol,
		&dir,
		&t.EntryPrice,
		&t.ExitPrice,
		&t.Quantity,
		&t.PnL,
		&t.Date,
		&stop,
		&target,
		&riskAmt,
		&t.Setup,
		&t.Timeframe,
		&t.Notes,
	)
	if err != nil {
		return Trade{}, err
	}
	t.Direction = Direction(dir)
	t.StopLoss = nullable(stop)
	t.TakeProfit = nullable(target)
	t.RiskAmount = nullable(riskAmt)
	return t, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return Float(v.Float64)
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
