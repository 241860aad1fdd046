package oscillators

import (
	"math"
	"testing"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/indicators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRSI(t *testing.T, n int, avg RSIAverage) *RSI {
	t.Helper()
	r, err := NewRSI(RSIConfig{Config: indicators.DefaultConfig(n), Average: avg})
	require.NoError(t, err)
	return r
}

func TestRSI_AveragingVariants(t *testing.T) {
	tests := []struct {
		name    string
		average RSIAverage
		want    []float64
	}{
		{"wilder", RSIWilder, []float64{100, 50, 75}},
		{"cutler", RSICutler, []float64{100, 50, 50}},
		{"ema", RSIEMA, []float64{100, 100.0 / 3, 100 - 100/4.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := feedCloses(newTestRSI(t, 2, tt.average), 1, 2, 1, 2)
			require.Len(t, out, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], out[i], 1e-9, "value %d", i)
			}
		})
	}
}

func TestRSI_FirstValueOnlyPrimes(t *testing.T) {
	out := feedCloses(newTestRSI(t, 14, RSIWilder), 44.34)
	assert.Empty(t, out)
}

func TestRSI_FlatSeries(t *testing.T) {
	out := feedCloses(newTestRSI(t, 3, RSIWilder), 5, 5, 5)
	assert.Equal(t, []float64{50, 50}, out)
}

// wilderClassic is Wilder's original formulation: the first averages are the
// simple means of the first n deltas, smoothed by (prev*(n-1)+x)/n after
// that. It yields one value per delta from the nth on.
func wilderClassic(closes []float64, n int) []float64 {
	var up, down float64
	for i := 1; i <= n; i++ {
		d := closes[i] - closes[i-1]
		up += math.Max(d, 0) / float64(n)
		down += math.Max(-d, 0) / float64(n)
	}
	out := []float64{100 - 100/(1+up/down)}
	for i := n + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		up = (up*float64(n-1) + math.Max(d, 0)) / float64(n)
		down = (down*float64(n-1) + math.Max(-d, 0)) / float64(n)
		out = append(out, 100-100/(1+up/down))
	}
	return out
}

// StockCharts "RSI" worked example, closes and published values
var (
	stockChartsCloses = []float64{
		44.3389, 44.0902, 44.1497, 43.6124, 44.3278, 44.8264, 45.0955, 45.4245, 45.8433, 46.0826,
		45.8931, 46.0328, 45.6140, 46.2820, 46.2820, 46.0028, 46.0328, 46.4116, 46.2222, 45.6439,
		46.2122, 46.2521, 45.7137, 46.4578, 45.7835, 45.3500, 44.0329, 44.1783, 44.2181, 44.5672,
		43.4205, 42.6628, 43.1314,
	}
	stockChartsRSI = []float64{
		70.53, 66.32, 66.55, 69.41, 66.36, 57.97, 62.93, 63.26, 56.06, 62.38,
		54.71, 50.42, 39.99, 41.46, 41.87, 45.46, 37.30, 33.08, 37.77,
	}
)

func TestRSI_WilderMatchesPublishedValues(t *testing.T) {
	out := feedCloses(newTestRSI(t, 14, RSIWilder), stockChartsCloses...)
	require.Len(t, out, len(stockChartsCloses)-1)

	// the running-mean warm-up reaches the simple mean of 14 deltas on the
	// 14th, so from there on the series is the classic one
	warm := out[13:]
	require.Len(t, warm, len(stockChartsRSI))
	for i, want := range stockChartsRSI {
		// the published sheet rounds its intermediate averages
		assert.InDelta(t, want, warm[i], 0.05, "value %d", i)
	}
	assert.InDelta(t, 70.5328, warm[0], 1e-4)
	assert.InDelta(t, 66.3186, warm[1], 1e-4)
}

func TestRSI_WilderMatchesClassicFormulation(t *testing.T) {
	closes := []float64{
		44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08,
		45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41, 46.22, 45.64,
		46.21, 46.25, 45.71,
	}

	out := feedCloses(newTestRSI(t, 14, RSIWilder), closes...)
	require.Len(t, out, len(closes)-1)

	want := wilderClassic(closes, 14)
	warm := out[13:]
	require.Len(t, warm, len(want))
	for i := range want {
		assert.InDelta(t, want[i], warm[i], 1e-9, "value %d", i)
	}
	assert.InDelta(t, 70.4641, warm[0], 1e-4)
	assert.InDelta(t, 56.0116, warm[len(warm)-1], 1e-4)
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestRSI_UnknownAverageFailsConstruction(t *testing.T) {
	_, err := NewRSI(RSIConfig{Config: indicators.DefaultConfig(14), Average: RSIAverage(7)})
	require.Error(t, err)
	assert.True(t, errs.IsConfigurationError(err))
}

func TestParseRSIAverage(t *testing.T) {
	a, err := ParseRSIAverage("cutler")
	require.NoError(t, err)
	assert.Equal(t, RSICutler, a)

	_, err = ParseRSIAverage("hull")
	assert.Error(t, err)
}
