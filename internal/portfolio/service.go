package portfolio

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"PortfolioSentinel/internal/candles"
	"PortfolioSentinel/internal/currency"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/provider"
	"PortfolioSentinel/internal/store"
	"PortfolioSentinel/internal/timestamps"

	"github.com/shopspring/decimal"
)

// DefaultWindowDays is the length of the fresh candle window.
const DefaultWindowDays = 91

// Totals sums the whole portfolio in the base currency.
type Totals struct {
	Buyin       float64 `json:"buyin"`
	Value       float64 `json:"value"`
	DiffEuro    float64 `json:"diffEuro"`
	DiffPercent float64 `json:"diffPercent"`
}

// Position is one holding as served to clients.
type Position struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Count        float64 `json:"count"`
	BuyinPrice   float64 `json:"buyinPrice"`
	BuyinValue   float64 `json:"buyinValue"`
	CurrentPrice float64 `json:"currentPrice"`
	CurrentValue float64 `json:"currentValue"`
	DiffEuro     float64 `json:"diffEuro"`
	DiffPercent  float64 `json:"diffPercent"`
}

// Summary is the aggregated holdings view.
type Summary struct {
	Timestamp int64      `json:"timestamp"`
	Portfolio Totals     `json:"portfolio"`
	Stonks    []Position `json:"stonks"`
}

// CandleView is the merged candle view.
type CandleView struct {
	Timestamp int64           `json:"timestamp"`
	Candles   model.CandleMap `json:"candles"`
}

// Details combines key metrics with the company logo.
type Details struct {
	model.Metrics
	Logo string `json:"logo"`
}

// NewHolding is the input for AddHolding.
type NewHolding struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// Service serves the portfolio read and write operations.
type Service struct {
	Store      store.Store
	Provider   provider.Provider
	Cache      *timestamps.Cache
	Currencies []string
	WindowDays int
	Now        func() time.Time
}

// NewService creates a Service.
func NewService(st store.Store, p provider.Provider, cache *timestamps.Cache, currencies []string, windowDays int) *Service {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Service{
		Store:      st,
		Provider:   p,
		Cache:      cache,
		Currencies: currencies,
		WindowDays: windowDays,
		Now:        time.Now,
	}
}

// Summary returns every holding with its gain or loss plus portfolio totals.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	holdings, err := s.Store.AllHoldings(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load holdings: %w", err)
	}

	ts, _ := s.Cache.Get(timestamps.NameHoldings)
	out := Summary{Timestamp: ts, Stonks: make([]Position, 0, len(holdings))}

	buyinTotal, valueTotal := decimal.Zero, decimal.Zero
	for _, h := range holdings {
		qty := decimal.NewFromFloat(h.Quantity)
		buyin := decimal.NewFromFloat(h.BuyIn)
		current := decimal.NewFromFloat(h.Price)

		buyinValue := buyin.Mul(qty)
		currentValue := current.Mul(qty)
		buyinTotal = buyinTotal.Add(buyinValue)
		valueTotal = valueTotal.Add(currentValue)

		out.Stonks = append(out.Stonks, Position{
			Symbol:       h.Symbol,
			Name:         h.Name,
			Count:        h.Quantity,
			BuyinPrice:   h.BuyIn,
			BuyinValue:   buyinValue.InexactFloat64(),
			CurrentPrice: h.Price,
			CurrentValue: currentValue.InexactFloat64(),
			DiffEuro:     current.Sub(buyin).Mul(qty).InexactFloat64(),
			DiffPercent:  percent(current.Sub(buyin), buyin),
		})
	}

	diff := valueTotal.Sub(buyinTotal)
	out.Portfolio = Totals{
		Buyin:       buyinTotal.InexactFloat64(),
		Value:       valueTotal.InexactFloat64(),
		DiffEuro:    diff.InexactFloat64(),
		DiffPercent: percent(diff, buyinTotal),
	}
	return out, nil
}

// percent returns part/whole*100, or 0 when whole is zero.
func percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// AddHolding validates the input, resolves the display name and stores a new
// holding with no synced price yet.
func (s *Service) AddHolding(ctx context.Context, in NewHolding) error {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	cur := strings.ToUpper(strings.TrimSpace(in.Currency))

	switch {
	case symbol == "":
		return &ConfigurationError{Field: "symbol"}
	case in.Quantity <= 0:
		return &ConfigurationError{Field: "quantity", Value: fmt.Sprint(in.Quantity)}
	case in.Price <= 0:
		return &ConfigurationError{Field: "price", Value: fmt.Sprint(in.Price)}
	case !currency.Allowed(cur, s.Currencies):
		return &ConfigurationError{Field: "currency", Value: in.Currency}
	}

	name, err := s.Provider.ResolveName(ctx, symbol)
	if err != nil {
		return fmt.Errorf("resolve name %s: %w", symbol, err)
	}

	err = s.Store.InsertHolding(ctx, model.Holding{
		Symbol:   symbol,
		Name:     name,
		BuyIn:    in.Price,
		Quantity: in.Quantity,
		Currency: cur,
	})
	if err != nil {
		return fmt.Errorf("insert holding %s: %w", symbol, err)
	}
	log.Printf("[INFO] added holding %s (%s)", symbol, name)
	return nil
}

// DeleteHolding stops tracking symbol.
func (s *Service) DeleteHolding(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return &ConfigurationError{Field: "symbol"}
	}
	if err := s.Store.DeleteHolding(ctx, symbol); err != nil {
		return fmt.Errorf("delete holding %s: %w", symbol, err)
	}
	log.Printf("[INFO] deleted holding %s", symbol)
	return nil
}

// Candles merges stored candle history with a freshly fetched window for
// every holding.
func (s *Service) Candles(ctx context.Context) (CandleView, error) {
	holdings, err := s.Store.AllHoldings(ctx)
	if err != nil {
		return CandleView{}, fmt.Errorf("load holdings: %w", err)
	}
	rows, err := s.Store.AllCandleRows(ctx)
	if err != nil {
		return CandleView{}, fmt.Errorf("load candles: %w", err)
	}

	symbols := make([]string, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
	}
	fresh, err := provider.FetchCandles(ctx, s.Provider, symbols, provider.LastDays(s.WindowDays, s.Now()))
	if err != nil {
		return CandleView{}, err
	}

	ts, _ := s.Cache.Get(timestamps.NameCandles)
	return CandleView{
		Timestamp: ts,
		Candles:   candles.Merge(candles.Aggregate(rows), fresh),
	}, nil
}

// Details returns key metrics and the logo for symbol.
func (s *Service) Details(ctx context.Context, symbol string) (Details, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Details{}, &ConfigurationError{Field: "symbol"}
	}
	m, err := s.Provider.Metrics(ctx, symbol)
	if err != nil {
		return Details{}, fmt.Errorf("metrics %s: %w", symbol, err)
	}
	logo, err := s.Provider.LogoURL(ctx, symbol)
	if err != nil {
		return Details{}, fmt.Errorf("logo %s: %w", symbol, err)
	}
	return Details{Metrics: m, Logo: logo}, nil
}
