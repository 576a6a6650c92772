package model

// BaseCurrency is the currency every portfolio value is expressed in.
const BaseCurrency = "EUR"

// Holding is a tracked equity/ETF position.
type Holding struct {
	Symbol   string
	Name     string
	BuyIn    float64 // purchase price per unit
	Quantity float64
	Price    float64 // current price in BaseCurrency, 0 until the first sync
	Currency string  // currency the provider quotes the symbol in
}

// Quote is a live price snapshot returned by the market-data provider.
type Quote struct {
	Symbol        string
	Current       float64
	High          float64
	Low           float64
	Open          float64
	PreviousClose float64
}

// FxRates maps a currency code to its multiplier against BaseCurrency.
type FxRates map[string]float64

// Metrics holds fundamentals for a single symbol.
type Metrics struct {
	YearLow  float64 `json:"yearLow"`
	YearHigh float64 `json:"yearHigh"`
	PERatio  float64 `json:"peRatio"`
}
