package timestamps

import (
	"context"
	"log"
	"sync"
)

// Names of the tracked cycles.
const (
	NameHoldings = "allstonks"
	NameCandles  = "allstonkcandles"
)

// Source provides persisted timestamps in unix seconds.
type Source interface {
	AllTimestamps(ctx context.Context) (map[string]int64, error)
}

// Sink persists a timestamp in unix seconds.
type Sink interface {
	SaveTimestamp(ctx context.Context, name string, seconds int64) error
}

// Cache holds the last successful completion time per cycle name, in unix
// milliseconds. Values never move backwards.
type Cache struct {
	mu     sync.RWMutex
	values map[string]int64
	ready  chan struct{}
	once   sync.Once
}

func NewCache() *Cache {
	return &Cache{
		values: make(map[string]int64),
		ready:  make(chan struct{}),
	}
}

// Load populates the cache from src and marks it ready. The cache is marked
// ready even when loading fails so that readers are not blocked forever.
func (c *Cache) Load(ctx context.Context, src Source) error {
	defer c.once.Do(func() { close(c.ready) })

	stored, err := src.AllTimestamps(ctx)
	if err != nil {
		return err
	}
	for name, seconds := range stored {
		c.Set(name, seconds*1000)
	}
	log.Printf("[INFO] loaded %d sync timestamps", len(stored))
	return nil
}

// Ready reports whether the initial load has finished.
func (c *Cache) Ready() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// Wait blocks until the initial load has finished or ctx is done.
func (c *Cache) Wait(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get returns the timestamp in milliseconds for name.
func (c *Cache) Get(name string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

// Set records ms for name unless a newer value is already present.
// It reports whether the value changed.
func (c *Cache) Set(name string, ms int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.values[name]; ok && cur >= ms {
		return false
	}
	c.values[name] = ms
	return true
}

// Persist mirrors the cached value for name to sink.
func (c *Cache) Persist(ctx context.Context, sink Sink, name string) error {
	ms, ok := c.Get(name)
	if !ok {
		return nil
	}
	return sink.SaveTimestamp(ctx, name, ms/1000)
}
