package store

import (
	"context"
	"errors"
	"fmt"

	"PortfolioSentinel/internal/model"
)

var (
	// ErrNotFound is returned when no holding matches the symbol.
	ErrNotFound = errors.New("holding not found")
	// ErrExists is returned when inserting a symbol that is already tracked.
	ErrExists = errors.New("holding already exists")
)

// PersistenceError wraps any failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// Store persists holdings, sync timestamps and historical candles.
type Store interface {
	AllHoldings(ctx context.Context) ([]model.Holding, error)
	InsertHolding(ctx context.Context, h model.Holding) error
	UpdateHoldingPrice(ctx context.Context, symbol string, price float64) error
	DeleteHolding(ctx context.Context, symbol string) error

	// AllTimestamps returns unix seconds per name.
	AllTimestamps(ctx context.Context) (map[string]int64, error)
	// SaveTimestamp upserts unix seconds for name, never moving it backwards.
	SaveTimestamp(ctx context.Context, name string, seconds int64) error

	// AllCandleRows returns every stored candle sorted by (symbol, timestamp).
	AllCandleRows(ctx context.Context) ([]model.CandlePoint, error)

	Close() error
}
