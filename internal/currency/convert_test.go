package currency

import (
	"testing"

	"PortfolioSentinel/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	rates := model.FxRates{"USD": 1.25, "CAD": 1.5, "JPY": 0}

	testCases := []struct {
		name     string
		price    float64
		currency string
		expected float64
	}{
		{name: "base currency is identity", price: 123.45, currency: "EUR", expected: 123.45},
		{name: "lowercase base currency is identity", price: 7, currency: "eur", expected: 7},
		{name: "divides by rate", price: 100, currency: "USD", expected: 80},
		{name: "divides by other rate", price: 30, currency: "CAD", expected: 20},
		{name: "unknown currency is identity", price: 42, currency: "GBP", expected: 42},
		{name: "zero rate is identity", price: 42, currency: "JPY", expected: 42},
		{name: "zero price", price: 0, currency: "USD", expected: 0},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Convert(tt.price, tt.currency, rates), 1e-9)
		})
	}
}

func TestConvert_EmptyRates(t *testing.T) {
	for _, p := range []float64{0, 0.01, 1, 99.99, 12345.678} {
		assert.Equal(t, p, Convert(p, "USD", nil))
		assert.Equal(t, p, Convert(p, "EUR", nil))
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.234, 2))
	assert.Equal(t, 1.24, Round(1.235, 2))
	assert.Equal(t, -1.24, Round(-1.235, 2))
	assert.Equal(t, 4.0, Round(4.0000001, 2))
	assert.Equal(t, 3.0, Round(2.5, 0))
}

func TestAllowed(t *testing.T) {
	allow := []string{"EUR", "USD", "CAD"}
	assert.True(t, Allowed("usd", allow))
	assert.True(t, Allowed("EUR", allow))
	assert.False(t, Allowed("GBP", allow))
	assert.False(t, Allowed("", allow))
}

func TestValidateCodes(t *testing.T) {
	assert.NoError(t, ValidateCodes([]string{"EUR", "usd", "CAD"}))
	assert.Error(t, ValidateCodes([]string{"EUR", "XYZ"}))
}
