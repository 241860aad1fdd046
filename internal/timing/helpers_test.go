package timing

import (
	"time"

	"github.com/ducminhle1904/market-timing/pkg/types"
)

const asset = "SPY"

var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func instantQuotes(day int, close float64) types.InstantQuotes {
	ts := epoch.AddDate(0, 0, day)
	return types.NewInstantQuotes(ts, types.Quote{
		Asset: asset,
		OHLCV: types.OHLCV{
			Open:      close,
			High:      close + 1,
			Low:       close - 1,
			Close:     close,
			Timestamp: ts,
		},
	})
}

// replay records closes on consecutive days starting at day and returns the
// status after every call
func replay(t MarketTiming, day int, closes ...float64) []types.BearBull {
	out := make([]types.BearBull, 0, len(closes))
	for i, c := range closes {
		t.Record(instantQuotes(day+i, c))
		out = append(out, t.Status())
	}
	return out
}

func ramp(from, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + step*float64(i)
	}
	return out
}

type countingRecorder struct {
	bars        int
	transitions []types.BearBull
	values      int
}

func (c *countingRecorder) RecordBar(string, string) { c.bars++ }

func (c *countingRecorder) RecordTransition(_ string, to types.BearBull) {
	c.transitions = append(c.transitions, to)
}

func (c *countingRecorder) RecordValues(_ string, n int) { c.values += n }
