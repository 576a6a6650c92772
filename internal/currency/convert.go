package currency

import (
	"fmt"
	"strings"

	"PortfolioSentinel/internal/model"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Convert turns a price quoted in cur into the base currency.
// A currency missing from rates (or with a zero rate) converts at 1.
func Convert(price float64, cur string, rates model.FxRates) float64 {
	cur = strings.ToUpper(cur)
	if cur == model.BaseCurrency {
		return price
	}
	rate, ok := rates[cur]
	if !ok || rate == 0 {
		return price
	}
	return decimal.NewFromFloat(price).Div(decimal.NewFromFloat(rate)).InexactFloat64()
}

// Round rounds value to the given number of decimal places, half away from zero.
func Round(value float64, places int32) float64 {
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// Allowed reports whether cur is in the allow-list, ignoring case.
func Allowed(cur string, allow []string) bool {
	for _, a := range allow {
		if strings.EqualFold(a, cur) {
			return true
		}
	}
	return false
}

// ValidateCodes checks that every code is a known ISO 4217 currency.
func ValidateCodes(codes []string) error {
	for _, c := range codes {
		if money.GetCurrency(strings.ToUpper(c)) == nil {
			return fmt.Errorf("unknown currency code %q", c)
		}
	}
	return nil
}
