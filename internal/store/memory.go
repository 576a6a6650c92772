package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"PortfolioSentinel/internal/model"
)

// MemoryStore keeps everything in process memory. It is used when no
// database is configured and as a test double.
type MemoryStore struct {
	mu         sync.Mutex
	holdings   []model.Holding
	timestamps map[string]int64
	candles    []model.CandlePoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{timestamps: make(map[string]int64)}
}

func (m *MemoryStore) AllHoldings(context.Context) ([]model.Holding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Holding(nil), m.holdings...), nil
}

func (m *MemoryStore) InsertHolding(_ context.Context, h model.Holding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index(h.Symbol) >= 0 {
		return wrap("insert holding", fmt.Errorf("%s: %w", h.Symbol, ErrExists))
	}
	m.holdings = append(m.holdings, h)
	return nil
}

func (m *MemoryStore) UpdateHoldingPrice(_ context.Context, symbol string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(symbol)
	if i < 0 {
		return wrap("update price", fmt.Errorf("%s: %w", symbol, ErrNotFound))
	}
	m.holdings[i].Price = price
	return nil
}

func (m *MemoryStore) DeleteHolding(_ context.Context, symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(symbol)
	if i < 0 {
		return wrap("delete holding", fmt.Errorf("%s: %w", symbol, ErrNotFound))
	}
	m.holdings = append(m.holdings[:i], m.holdings[i+1:]...)
	return nil
}

func (m *MemoryStore) index(symbol string) int {
	for i, h := range m.holdings {
		if h.Symbol == symbol {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) AllTimestamps(context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.timestamps))
	for k, v := range m.timestamps {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) SaveTimestamp(_ context.Context, name string, seconds int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seconds > m.timestamps[name] {
		m.timestamps[name] = seconds
	}
	return nil
}

func (m *MemoryStore) AllCandleRows(context.Context) ([]model.CandlePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]model.CandlePoint(nil), m.candles...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Timestamp < out[j].Timestamp
	})
	return out, nil
}

// InsertCandles upserts historical candle rows.
func (m *MemoryStore) InsertCandles(_ context.Context, points []model.CandlePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
next:
	for _, p := range points {
		for i, c := range m.candles {
			if c.Symbol == p.Symbol && c.Timestamp == p.Timestamp {
				m.candles[i] = p
				continue next
			}
		}
		m.candles = append(m.candles, p)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
