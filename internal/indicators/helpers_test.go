package indicators

import (
	"time"

	"github.com/ducminhle1904/market-timing/pkg/types"
)

var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func closeCandle(day int, close float64) (time.Time, types.OHLCV) {
	ts := epoch.AddDate(0, 0, day)
	return ts, types.OHLCV{
		Open:      close,
		High:      close + 1,
		Low:       close - 1,
		Close:     close,
		Timestamp: ts,
	}
}

// feedCloses runs closes through ind on consecutive days and returns every
// emitted value
func feedCloses(ind Indicator, closes ...float64) []float64 {
	var out []float64
	for i, c := range closes {
		instant, candle := closeCandle(i, c)
		if v, ok := ind.Calculate(instant, candle); ok {
			out = append(out, v)
		}
	}
	return out
}
