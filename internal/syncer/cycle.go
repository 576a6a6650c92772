package syncer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"PortfolioSentinel/internal/currency"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/provider"
	"PortfolioSentinel/internal/store"
	"PortfolioSentinel/internal/timestamps"

	"golang.org/x/sync/errgroup"
)

// Result summarizes one completed cycle.
type Result struct {
	CompletedAt time.Time
	Updated     int
	Failed      int
}

// Cycle fetches live prices for every holding and writes them back in the
// base currency.
type Cycle struct {
	Store    store.Store
	Provider provider.Provider
	Cache    *timestamps.Cache
	Now      func() time.Time
}

// NewCycle creates a new Cycle.
func NewCycle(st store.Store, p provider.Provider, cache *timestamps.Cache) *Cycle {
	return &Cycle{Store: st, Provider: p, Cache: cache, Now: time.Now}
}

// Run executes one cycle.
//
// Reading holdings, the FX table or any quote failing aborts the cycle before
// any write and leaves the timestamp untouched. Once fetching succeeded the
// timestamp advances; price writes then run concurrently and each failure is
// logged and counted without failing the cycle. Run returns after every
// write has finished.
func (c *Cycle) Run(ctx context.Context) (Result, error) {
	holdings, err := c.Store.AllHoldings(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read holdings: %w", err)
	}

	var (
		rates  model.FxRates
		quotes []model.Quote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := c.Provider.FxRates(gctx)
		if err != nil {
			return fmt.Errorf("fetch fx rates: %w", err)
		}
		rates = r
		return nil
	})
	g.Go(func() error {
		q, err := provider.FetchQuotes(gctx, c.Provider, holdings)
		if err != nil {
			return fmt.Errorf("fetch quotes: %w", err)
		}
		quotes = q
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	prices := make([]float64, len(holdings))
	for i, h := range holdings {
		prices[i] = currency.Convert(quotes[i].Current, h.Currency, rates)
	}

	now := c.Now()
	c.Cache.Set(timestamps.NameHoldings, now.UnixMilli())
	if err := c.Cache.Persist(ctx, c.Store, timestamps.NameHoldings); err != nil {
		log.Printf("[ERROR] persist sync timestamp: %v", err)
	}

	res := Result{CompletedAt: now}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i, h := range holdings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.Store.UpdateHoldingPrice(ctx, h.Symbol, prices[i])
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				log.Printf("[ERROR] update price %s: %v", h.Symbol, err)
				return
			}
			res.Updated++
		}()
	}
	wg.Wait()

	return res, nil
}

// Job adapts Run for the scheduler; errors are logged, never returned.
func (c *Cycle) Job(ctx context.Context) {
	start := c.Now()
	res, err := c.Run(ctx)
	if err != nil {
		log.Printf("[ERROR] sync cycle: %v", err)
		return
	}
	log.Printf("[INFO] sync cycle done in %v: %d updated, %d failed",
		c.Now().Sub(start).Round(time.Millisecond), res.Updated, res.Failed)
}
