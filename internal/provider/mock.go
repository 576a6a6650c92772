package provider

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"PortfolioSentinel/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	Quotes     map[string]model.Quote
	QuoteErrs  map[string]error
	Series     map[string]model.CandleSeries
	CandleErr  error
	Rates      model.FxRates
	RatesErr   error
	Names      map[string]string
	NameErr    error
	MetricsFor map[string]model.Metrics
	Logos      map[string]string

	QuoteCalls atomic.Int64
	NameCalls  atomic.Int64
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Quote(_ context.Context, symbol string) (model.Quote, error) {
	m.QuoteCalls.Add(1)
	if err := m.QuoteErrs[symbol]; err != nil {
		return model.Quote{}, err
	}
	q, ok := m.Quotes[symbol]
	if !ok {
		return model.Quote{}, &ValidationError{Symbol: symbol, Field: "current"}
	}
	q.Symbol = symbol
	return q, nil
}

func (m *MockProvider) Candles(_ context.Context, symbol string, _, _ time.Time) (model.CandleSeries, error) {
	if m.CandleErr != nil {
		return model.CandleSeries{}, m.CandleErr
	}
	return m.Series[symbol], nil
}

func (m *MockProvider) FxRates(context.Context) (model.FxRates, error) {
	if m.RatesErr != nil {
		return nil, m.RatesErr
	}
	return m.Rates, nil
}

func (m *MockProvider) ResolveName(_ context.Context, symbol string) (string, error) {
	m.NameCalls.Add(1)
	if m.NameErr != nil {
		return "", m.NameErr
	}
	if n, ok := m.Names[symbol]; ok {
		return n, nil
	}
	return "", &ValidationError{Symbol: symbol, Field: "name"}
}

func (m *MockProvider) Metrics(_ context.Context, symbol string) (model.Metrics, error) {
	if mt, ok := m.MetricsFor[symbol]; ok {
		return mt, nil
	}
	return model.Metrics{}, fmt.Errorf("no metrics for %s", symbol)
}

func (m *MockProvider) LogoURL(_ context.Context, symbol string) (string, error) {
	return m.Logos[symbol], nil
}
