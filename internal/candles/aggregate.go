package candles

import "PortfolioSentinel/internal/model"

// GroupBy collects items by key. Items sharing a key keep their input order,
// whether or not they are adjacent.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, it := range items {
		k := key(it)
		groups[k] = append(groups[k], it)
	}
	return groups
}

// Aggregate turns stored candle rows into one series per symbol.
// Rows must already be sorted by (symbol, timestamp); order is not re-checked.
func Aggregate(rows []model.CandlePoint) model.CandleMap {
	grouped := GroupBy(rows, func(p model.CandlePoint) string { return p.Symbol })

	out := make(model.CandleMap, len(grouped))
	for symbol, points := range grouped {
		s := model.CandleSeries{
			Opens:  make([]float64, 0, len(points)),
			Highs:  make([]float64, 0, len(points)),
			Lows:   make([]float64, 0, len(points)),
			Closes: make([]float64, 0, len(points)),
			Times:  make([]int64, 0, len(points)),
		}
		for _, p := range points {
			s.Opens = append(s.Opens, p.Open)
			s.Highs = append(s.Highs, p.High)
			s.Lows = append(s.Lows, p.Low)
			s.Closes = append(s.Closes, p.Close)
			s.Times = append(s.Times, p.Timestamp*1000)
		}
		out[symbol] = s
	}
	return out
}

// Merge appends fresh provider candles to the stored series of each symbol.
// Fresh points at or before the last stored time are dropped.
func Merge(stored, fresh model.CandleMap) model.CandleMap {
	out := make(model.CandleMap, len(stored)+len(fresh))
	for symbol, s := range stored {
		out[symbol] = s
	}
	for symbol, f := range fresh {
		base, ok := out[symbol]
		if !ok {
			out[symbol] = f
			continue
		}
		var last int64
		if n := base.Len(); n > 0 {
			last = base.Times[n-1]
		}
		merged := model.CandleSeries{
			Opens:  append([]float64(nil), base.Opens...),
			Highs:  append([]float64(nil), base.Highs...),
			Lows:   append([]float64(nil), base.Lows...),
			Closes: append([]float64(nil), base.Closes...),
			Times:  append([]int64(nil), base.Times...),
		}
		for i, t := range f.Times {
			if t <= last {
				continue
			}
			merged.Opens = append(merged.Opens, f.Opens[i])
			merged.Highs = append(merged.Highs, f.Highs[i])
			merged.Lows = append(merged.Lows, f.Lows[i])
			merged.Closes = append(merged.Closes, f.Closes[i])
			merged.Times = append(merged.Times, t)
		}
		out[symbol] = merged
	}
	return out
}
