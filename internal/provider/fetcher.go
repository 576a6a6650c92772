package provider

import (
	"context"
	"fmt"

	"PortfolioSentinel/internal/model"

	"golang.org/x/sync/errgroup"
)

// FetchQuotes requests a quote for every holding concurrently.
// The result is index-aligned with holdings. It returns only after every
// request has finished, and fails as a whole if any single request fails.
func FetchQuotes(ctx context.Context, p Provider, holdings []model.Holding) ([]model.Quote, error) {
	quotes := make([]model.Quote, len(holdings))
	g, gctx := errgroup.WithContext(ctx)
	for i, h := range holdings {
		g.Go(func() error {
			q, err := p.Quote(gctx, h.Symbol)
			if err != nil {
				return fmt.Errorf("quote %s: %w", h.Symbol, err)
			}
			quotes[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return quotes, nil
}

// FetchCandles requests the candle window for every symbol concurrently,
// failing as a whole if any request fails.
func FetchCandles(ctx context.Context, p Provider, symbols []string, window Window) (model.CandleMap, error) {
	series := make([]model.CandleSeries, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range symbols {
		g.Go(func() error {
			c, err := p.Candles(gctx, s, window.From, window.To)
			if err != nil {
				return fmt.Errorf("candles %s: %w", s, err)
			}
			series[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(model.CandleMap, len(symbols))
	for i, s := range symbols {
		out[s] = series[i]
	}
	return out, nil
}
