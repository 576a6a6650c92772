package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves canned bodies per path and records the token used.
func newTestServer(t *testing.T, routes map[string]string, tokens map[string]string) *FinnhubProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens != nil {
			tokens[r.URL.Path] = r.URL.Query().Get("token")
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"You don't have access to this resource."}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewFinnhubProvider(srv.URL, "main-key", "sandbox-key", "")
}

func TestQuote(t *testing.T) {
	tokens := map[string]string{}
	p := newTestServer(t, map[string]string{
		"/quote": `{"c":110.5,"h":111,"l":109,"o":110,"pc":108.25,"t":1700000000}`,
	}, tokens)

	q, err := p.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, 110.5, q.Current)
	assert.Equal(t, 111.0, q.High)
	assert.Equal(t, 109.0, q.Low)
	assert.Equal(t, 110.0, q.Open)
	assert.Equal(t, 108.25, q.PreviousClose)
	assert.Equal(t, "sandbox-key", tokens["/quote"])
}

func TestQuote_MissingField(t *testing.T) {
	testCases := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing current", body: `{"h":1,"l":1,"o":1,"pc":1}`, field: "current"},
		{name: "missing previous close", body: `{"c":1,"h":1,"l":1,"o":1}`, field: "previousClose"},
		{name: "unknown symbol zeroes", body: `{"c":0,"h":0,"l":0,"o":0,"pc":0}`, field: "current"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestServer(t, map[string]string{"/quote": tt.body}, nil)
			_, err := p.Quote(context.Background(), "NOPE")

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, "NOPE", ve.Symbol)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestQuote_NonSuccessStatus(t *testing.T) {
	p := newTestServer(t, map[string]string{}, nil)
	_, err := p.Quote(context.Background(), "AAPL")

	var pe *ProviderError
	require.True(t, errors.As(err, &pe), "expected ProviderError, got %v", err)
	assert.Equal(t, http.StatusForbidden, pe.Status)
	assert.Contains(t, pe.Body, "access")
	assert.Equal(t, "/quote", pe.Endpoint)
}

func TestQuote_TransportFailure(t *testing.T) {
	p := NewFinnhubProvider("http://127.0.0.1:1", "k", "s", "")
	_, err := p.Quote(context.Background(), "AAPL")

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 0, pe.Status)
	assert.Error(t, pe.Unwrap())
}

func TestQuote_MalformedBody(t *testing.T) {
	p := newTestServer(t, map[string]string{"/quote": `not json`}, nil)
	_, err := p.Quote(context.Background(), "AAPL")

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "not json", pe.Body)
}

func TestCandles(t *testing.T) {
	tokens := map[string]string{}
	p := newTestServer(t, map[string]string{
		"/stock/candle": `{"c":[2,3],"h":[2.5,3.5],"l":[1.5,2.5],"o":[1.8,2.9],"t":[1700000000,1700086400],"s":"ok"}`,
	}, tokens)

	from := time.Unix(1699000000, 0)
	to := time.Unix(1701000000, 0)
	c, err := p.Candles(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	assert.Equal(t, []int64{1700000000000, 1700086400000}, c.Times)
	assert.Equal(t, []float64{1.8, 2.9}, c.Opens)
	assert.Equal(t, []float64{2, 3}, c.Closes)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "main-key", tokens["/stock/candle"])
}

func TestCandles_NoData(t *testing.T) {
	p := newTestServer(t, map[string]string{"/stock/candle": `{"s":"no_data"}`}, nil)
	_, err := p.Candles(context.Background(), "AAPL", time.Now().AddDate(0, 0, -91), time.Now())

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "closes", ve.Field)
}

func TestFxRates(t *testing.T) {
	p := newTestServer(t, map[string]string{
		"/forex/rates": `{"base":"EUR","quote":{"USD":1.08,"CAD":1.47,"EUR":1}}`,
	}, nil)

	rates, err := p.FxRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.08, rates["USD"])
	assert.Equal(t, 1.47, rates["CAD"])
}

func TestFxRates_MissingQuote(t *testing.T) {
	p := newTestServer(t, map[string]string{"/forex/rates": `{"base":"EUR"}`}, nil)
	_, err := p.FxRates(context.Background())

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestResolveName(t *testing.T) {
	testCases := []struct {
		name        string
		routes      map[string]string
		expected    string
		expectError bool
	}{
		{
			name: "company profile",
			routes: map[string]string{
				"/stock/profile2": `{"name":"Apple Inc"}`,
				"/etf/profile":    `{"profile":{"name":"should not be used"}}`,
			},
			expected: "Apple Inc",
		},
		{
			name: "falls back to etf profile",
			routes: map[string]string{
				"/stock/profile2": `{}`,
				"/etf/profile":    `{"profile":{"name":"iShares Core MSCI World"}}`,
			},
			expected: "iShares Core MSCI World",
		},
		{
			name: "neither profile has a name",
			routes: map[string]string{
				"/stock/profile2": `{}`,
				"/etf/profile":    `{"profile":{}}`,
			},
			expectError: true,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			tokens := map[string]string{}
			p := newTestServer(t, tt.routes, tokens)
			name, err := p.ResolveName(context.Background(), "SYM")
			if tt.expectError {
				var ve *ValidationError
				assert.True(t, errors.As(err, &ve))
				assert.Equal(t, "main-key", tokens["/etf/profile"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestMetricsAndLogo(t *testing.T) {
	p := newTestServer(t, map[string]string{
		"/stock/metric":   `{"metric":{"52WeekLow":120.5,"52WeekHigh":199.6,"peExclExtraTTM":29.3,"beta":null}}`,
		"/stock/profile2": `{"name":"Apple Inc","logo":"https://static.finnhub.io/logo/aapl.png"}`,
	}, nil)

	m, err := p.Metrics(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 120.5, m.YearLow)
	assert.Equal(t, 199.6, m.YearHigh)
	assert.Equal(t, 29.3, m.PERatio)

	logo, err := p.LogoURL(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "https://static.finnhub.io/logo/aapl.png", logo)
}

func TestMetrics_Missing(t *testing.T) {
	p := newTestServer(t, map[string]string{"/stock/metric": `{"metric":{"52WeekLow":1}}`}, nil)
	_, err := p.Metrics(context.Background(), "AAPL")

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "52WeekHigh", ve.Field)
}
