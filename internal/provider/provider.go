package provider

import (
	"context"
	"time"

	"PortfolioSentinel/internal/model"
)

// Provider defines the market-data capabilities the service depends on.
type Provider interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
	Candles(ctx context.Context, symbol string, from, to time.Time) (model.CandleSeries, error)
	FxRates(ctx context.Context) (model.FxRates, error)
	ResolveName(ctx context.Context, symbol string) (string, error)
	Metrics(ctx context.Context, symbol string) (model.Metrics, error)
	LogoURL(ctx context.Context, symbol string) (string, error)
	Name() string
}
