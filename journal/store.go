package journal

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// BalanceSnapshot is an account equity reading taken from an exchange.
type BalanceSnapshot struct {
	Time   time.Time
	Equity decimal.Decimal
	Source string
}

// Store is the trade persistence provider. The analytics engine only ever
// sees the Snapshot returned by List.
type Store interface {
	Create(ctx context.Context, t Trade) (Trade, error)
	Get(ctx context.Context, id string) (Trade, error)
	Update(ctx context.Context, t Trade) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) (Snapshot, error)
	ListBetween(ctx context.Context, from, to string) (Snapshot, error)
	Close() error
}
