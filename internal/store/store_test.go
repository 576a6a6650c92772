package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"PortfolioSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type candleStore interface {
	Store
	InsertCandles(ctx context.Context, points []model.CandlePoint) error
}

func implementations() map[string]func(t *testing.T) candleStore {
	return map[string]func(t *testing.T) candleStore{
		"memory": func(*testing.T) candleStore { return NewMemoryStore() },
		"sqlite": func(t *testing.T) candleStore {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "test.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func seed(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for _, h := range []model.Holding{
		{Symbol: "AAPL", Name: "Apple Inc", BuyIn: 100, Quantity: 2, Currency: "USD"},
		{Symbol: "IWDA", Name: "iShares Core MSCI World", BuyIn: 50, Quantity: 1, Currency: "EUR"},
		{Symbol: "SHOP", Name: "Shopify Inc", BuyIn: 80, Quantity: 3, Currency: "CAD"},
	} {
		require.NoError(t, s.InsertHolding(ctx, h))
	}
}

func TestHoldings(t *testing.T) {
	for name, newStore := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			seed(t, s)

			holdings, err := s.AllHoldings(ctx)
			require.NoError(t, err)
			require.Len(t, holdings, 3)
			assert.Equal(t, "AAPL", holdings[0].Symbol)
			assert.Equal(t, "IWDA", holdings[1].Symbol)
			assert.Equal(t, "SHOP", holdings[2].Symbol)
			assert.Equal(t, 0.0, holdings[0].Price)

			err = s.InsertHolding(ctx, model.Holding{Symbol: "AAPL", Name: "dup", BuyIn: 1, Quantity: 1, Currency: "USD"})
			assert.ErrorIs(t, err, ErrExists)
			var pe *PersistenceError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestUpdateHoldingPrice(t *testing.T) {
	for name, newStore := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			seed(t, s)
			before, err := s.AllHoldings(ctx)
			require.NoError(t, err)

			require.NoError(t, s.UpdateHoldingPrice(ctx, "IWDA", 87.5))

			after, err := s.AllHoldings(ctx)
			require.NoError(t, err)
			require.Len(t, after, len(before))
			for i := range after {
				if after[i].Symbol == "IWDA" {
					assert.Equal(t, 87.5, after[i].Price)
					continue
				}
				assert.Equal(t, before[i], after[i])
			}

			assert.ErrorIs(t, s.UpdateHoldingPrice(ctx, "NOPE", 1), ErrNotFound)
		})
	}
}

func TestDeleteHolding(t *testing.T) {
	for name, newStore := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			seed(t, s)

			require.NoError(t, s.DeleteHolding(ctx, "IWDA"))
			holdings, err := s.AllHoldings(ctx)
			require.NoError(t, err)
			require.Len(t, holdings, 2)
			assert.Equal(t, "AAPL", holdings[0].Symbol)
			assert.Equal(t, "SHOP", holdings[1].Symbol)

			assert.ErrorIs(t, s.DeleteHolding(ctx, "IWDA"), ErrNotFound)
		})
	}
}

func TestTimestamps(t *testing.T) {
	for name, newStore := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			ts, err := s.AllTimestamps(ctx)
			require.NoError(t, err)
			assert.Empty(t, ts)

			require.NoError(t, s.SaveTimestamp(ctx, "allstonks", 1700000000))
			require.NoError(t, s.SaveTimestamp(ctx, "allstonks", 1700000300))
			require.NoError(t, s.SaveTimestamp(ctx, "allstonkcandles", 1600000000))
			// an older value never moves the stored one backwards
			require.NoError(t, s.SaveTimestamp(ctx, "allstonks", 1600000000))

			ts, err = s.AllTimestamps(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]int64{
				"allstonks":       1700000300,
				"allstonkcandles": 1600000000,
			}, ts)
		})
	}
}

func TestAllCandleRows_Sorted(t *testing.T) {
	for name, newStore := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			require.NoError(t, s.InsertCandles(ctx, []model.CandlePoint{
				{Symbol: "MSFT", Timestamp: 200, Close: 4},
				{Symbol: "AAPL", Timestamp: 200, Close: 2},
				{Symbol: "MSFT", Timestamp: 100, Close: 3},
				{Symbol: "AAPL", Timestamp: 100, Close: 1},
			}))
			// upsert replaces an existing day
			require.NoError(t, s.InsertCandles(ctx, []model.CandlePoint{
				{Symbol: "AAPL", Timestamp: 200, Close: 2.5},
			}))

			rows, err := s.AllCandleRows(ctx)
			require.NoError(t, err)
			require.Len(t, rows, 4)
			expected := []struct {
				symbol string
				ts     int64
				close  float64
			}{
				{"AAPL", 100, 1}, {"AAPL", 200, 2.5}, {"MSFT", 100, 3}, {"MSFT", 200, 4},
			}
			for i, e := range expected {
				assert.Equal(t, e.symbol, rows[i].Symbol)
				assert.Equal(t, e.ts, rows[i].Timestamp)
				assert.Equal(t, e.close, rows[i].Close)
			}
		})
	}
}
