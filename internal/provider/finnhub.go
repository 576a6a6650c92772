package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"PortfolioSentinel/internal/model"
)

// DefaultFinnhubURL is the public Finnhub REST endpoint.
const DefaultFinnhubURL = "https://finnhub.io/api/v1"

// FinnhubProvider implements Provider using the Finnhub REST API.
//
// The provider plan restricts each key to a subset of endpoints: quotes and
// forex rates need the sandbox key, profiles, metrics and candles the main key.
type FinnhubProvider struct {
	BaseURL    string
	APIKey     string
	SandboxKey string
	Client     *http.Client
}

// NewFinnhubProvider creates a new provider with optional proxy support.
func NewFinnhubProvider(baseURL, apiKey, sandboxKey, proxyURL string) *FinnhubProvider {
	if baseURL == "" {
		baseURL = DefaultFinnhubURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FinnhubProvider{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		SandboxKey: sandboxKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FinnhubProvider) Name() string { return "finnhub" }

type finnhubQuote struct {
	Current       float64 `json:"c"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
}

// Quote fetches the live quote for symbol. Finnhub answers unknown symbols
// with zeroes, so a zero field counts as missing.
func (f *FinnhubProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	var q finnhubQuote
	if err := f.get(ctx, "/quote", url.Values{"symbol": {symbol}}, f.SandboxKey, &q); err != nil {
		return model.Quote{}, err
	}
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"current", q.Current},
		{"high", q.High},
		{"low", q.Low},
		{"open", q.Open},
		{"previousClose", q.PreviousClose},
	} {
		if field.value == 0 {
			return model.Quote{}, &ValidationError{Symbol: symbol, Field: field.name}
		}
	}
	return model.Quote{
		Symbol:        symbol,
		Current:       q.Current,
		High:          q.High,
		Low:           q.Low,
		Open:          q.Open,
		PreviousClose: q.PreviousClose,
	}, nil
}

type finnhubCandles struct {
	Closes []float64 `json:"c"`
	Highs  []float64 `json:"h"`
	Lows   []float64 `json:"l"`
	Opens  []float64 `json:"o"`
	Times  []int64   `json:"t"` // unix seconds
	Status string    `json:"s"`
}

// Candles fetches daily candles between from and to. Times in the result
// are unix milliseconds.
func (f *FinnhubProvider) Candles(ctx context.Context, symbol string, from, to time.Time) (model.CandleSeries, error) {
	params := url.Values{
		"symbol":     {symbol},
		"resolution": {"D"},
		"from":       {strconv.FormatInt(from.Unix(), 10)},
		"to":         {strconv.FormatInt(to.Unix(), 10)},
	}
	var c finnhubCandles
	if err := f.get(ctx, "/stock/candle", params, f.APIKey, &c); err != nil {
		return model.CandleSeries{}, err
	}
	switch {
	case c.Closes == nil:
		return model.CandleSeries{}, &ValidationError{Symbol: symbol, Field: "closes"}
	case c.Highs == nil:
		return model.CandleSeries{}, &ValidationError{Symbol: symbol, Field: "highs"}
	case c.Lows == nil:
		return model.CandleSeries{}, &ValidationError{Symbol: symbol, Field: "lows"}
	case c.Opens == nil:
		return model.CandleSeries{}, &ValidationError{Symbol: symbol, Field: "opens"}
	case c.Times == nil:
		return model.CandleSeries{}, &ValidationError{Symbol: symbol, Field: "times"}
	}
	n := len(c.Times)
	if len(c.Closes) != n || len(c.Highs) != n || len(c.Lows) != n || len(c.Opens) != n {
		return model.CandleSeries{}, &ValidationError{Symbol: symbol, Field: "aligned series"}
	}

	times := make([]int64, n)
	for i, t := range c.Times {
		times[i] = t * 1000
	}
	return model.CandleSeries{
		Opens:  c.Opens,
		Highs:  c.Highs,
		Lows:   c.Lows,
		Closes: c.Closes,
		Times:  times,
	}, nil
}

// FxRates fetches the conversion table with EUR as base.
func (f *FinnhubProvider) FxRates(ctx context.Context) (model.FxRates, error) {
	var r struct {
		Quote map[string]float64 `json:"quote"`
	}
	if err := f.get(ctx, "/forex/rates", url.Values{"base": {model.BaseCurrency}}, f.SandboxKey, &r); err != nil {
		return nil, err
	}
	if r.Quote == nil {
		return nil, &ValidationError{Field: "quote"}
	}
	return model.FxRates(r.Quote), nil
}

// ResolveName looks up the company name, falling back to the ETF profile
// when the company profile has none.
func (f *FinnhubProvider) ResolveName(ctx context.Context, symbol string) (string, error) {
	var company struct {
		Name string `json:"name"`
	}
	if err := f.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, f.APIKey, &company); err != nil {
		return "", err
	}
	if company.Name != "" {
		return company.Name, nil
	}

	var etf struct {
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
	}
	if err := f.get(ctx, "/etf/profile", url.Values{"symbol": {symbol}}, f.APIKey, &etf); err != nil {
		return "", err
	}
	if etf.Profile.Name == "" {
		return "", &ValidationError{Symbol: symbol, Field: "name"}
	}
	return etf.Profile.Name, nil
}

// Metrics fetches the 52-week range and P/E ratio.
func (f *FinnhubProvider) Metrics(ctx context.Context, symbol string) (model.Metrics, error) {
	var r struct {
		Metric struct {
			YearLow  float64 `json:"52WeekLow"`
			YearHigh float64 `json:"52WeekHigh"`
			PERatio  float64 `json:"peExclExtraTTM"`
		} `json:"metric"`
	}
	params := url.Values{"symbol": {symbol}, "metric": {"all"}}
	if err := f.get(ctx, "/stock/metric", params, f.APIKey, &r); err != nil {
		return model.Metrics{}, err
	}
	m := r.Metric
	switch {
	case m.YearLow == 0:
		return model.Metrics{}, &ValidationError{Symbol: symbol, Field: "52WeekLow"}
	case m.YearHigh == 0:
		return model.Metrics{}, &ValidationError{Symbol: symbol, Field: "52WeekHigh"}
	case m.PERatio == 0:
		return model.Metrics{}, &ValidationError{Symbol: symbol, Field: "peExclExtraTTM"}
	}
	return model.Metrics{YearLow: m.YearLow, YearHigh: m.YearHigh, PERatio: m.PERatio}, nil
}

// LogoURL returns the company logo, or "" for symbols without one (ETFs).
func (f *FinnhubProvider) LogoURL(ctx context.Context, symbol string) (string, error) {
	var profile struct {
		Logo string `json:"logo"`
	}
	if err := f.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, f.APIKey, &profile); err != nil {
		return "", err
	}
	return profile.Logo, nil
}

func (f *FinnhubProvider) get(ctx context.Context, path string, params url.Values, token string, out any) error {
	params.Set("token", token)
	endpoint := f.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &ProviderError{Endpoint: path, Err: err}
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return &ProviderError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Endpoint: path, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return &ProviderError{Endpoint: path, Status: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Endpoint: path, Status: resp.StatusCode, Body: string(body), Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
