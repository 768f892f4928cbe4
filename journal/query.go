package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// List returns every trade ordered by date, then by the order they were recorded.
func (s *SQLite) List(ctx context.Context) (Snapshot, error) {
	return s.queryTrades(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		ORDER BY trade_date ASC, seq ASC`)
}

// ListBetween returns trades whose date is within [from, to).
func (s *SQLite) ListBetween(ctx context.Context, from, to string) (Snapshot, error) {
	for _, d := range []string{from, to} {
		if _, err := time.Parse(DateLayout, d); err != nil {
			return nil, fmt.Errorf("bad date %q: %w", d, err)
		}
	}
	return s.queryTrades(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE trade_date >= ? AND trade_date < ?
		ORDER BY trade_date ASC, seq ASC`, from, to)
}

func (s *SQLite) queryTrades(ctx context.Context, query string, args ...any) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	out := Snapshot{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordBalance stores an account equity reading.
func (s *SQLite) RecordBalance(ctx context.Context, b BalanceSnapshot) error {
	if b.Time.IsZero() {
		b.Time = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balances (time, equity, source)
		VALUES (?, ?, ?)`,
		b.Time.UTC(), b.Equity.String(), b.Source,
	)
	if err != nil {
		return fmt.Errorf("insert balance: %w", err)
	}
	s.log.Info("balance recorded",
		zap.String("source", b.Source),
		zap.String("equity", b.Equity.String()),
	)
	return nil
}

// ListBalances returns every balance snapshot, oldest first.
func (s *SQLite) ListBalances(ctx context.Context) ([]BalanceSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT time, equity, source
		FROM balances
		ORDER BY time ASC`)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	defer rows.Close()

	var out []BalanceSnapshot
	for rows.Next() {
		var b BalanceSnapshot
		if err := rows.Scan(&b.Time, &b.Equity, &b.Source); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestBalance returns the most recent balance snapshot.
func (s *SQLite) LatestBalance(ctx context.Context) (BalanceSnapshot, error) {
	var b BalanceSnapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT time, equity, source
		FROM balances
		ORDER BY time DESC
		LIMIT 1`).Scan(&b.Time, &b.Equity, &b.Source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BalanceSnapshot{}, fmt.Errorf("balance %w", ErrNotFound)
		}
		return BalanceSnapshot{}, err
	}
	return b, nil
}
