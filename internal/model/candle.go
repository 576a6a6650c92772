package model

// CandlePoint is one stored daily candle row.
type CandlePoint struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Open      float64
	High      float64
	Low       float64
	Close     float64
}

// CandleSeries holds index-aligned parallel candle values for one symbol.
type CandleSeries struct {
	Opens  []float64 `json:"opens"`
	Highs  []float64 `json:"highs"`
	Lows   []float64 `json:"lows"`
	Closes []float64 `json:"closes"`
	Times  []int64   `json:"times"` // unix milliseconds
}

// Len returns the number of points in the series.
func (s CandleSeries) Len() int { return len(s.Times) }

// CandleMap maps a symbol to its series.
type CandleMap map[string]CandleSeries
