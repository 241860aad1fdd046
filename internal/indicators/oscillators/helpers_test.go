package oscillators

import (
	"time"

	"github.com/ducminhle1904/market-timing/internal/indicators"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func feedCloses(ind indicators.Indicator, closes ...float64) []float64 {
	var out []float64
	for i, c := range closes {
		ts := epoch.AddDate(0, 0, i)
		if v, ok := ind.Calculate(ts, types.OHLCV{Open: c, High: c, Low: c, Close: c, Timestamp: ts}); ok {
			out = append(out, v)
		}
	}
	return out
}
