package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/market-timing/internal/period"
)

func TestSMAIndicator_WarmsUp(t *testing.T) {
	sma, err := NewSMA(DefaultConfig(3))
	require.NoError(t, err)
	assert.Equal(t, "SMA", sma.GetName())

	out := feedCloses(sma, 2, 4, 6, 8, 10)
	assert.Equal(t, []float64{4, 6, 8}, out)

	v, ok := sma.GetLastValue()
	require.True(t, ok)
	assert.Equal(t, 8.0, v)
}

func TestSMAIndicator_Weekly(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.Periodicity = period.Weekly
	sma, err := NewSMA(cfg)
	require.NoError(t, err)

	var out []float64
	// 2020-01-01 is a Wednesday; four full weeks of rising closes
	for day := 0; day < 28; day++ {
		if v, ok := sma.Calculate(closeCandle(day, float64(day))); ok {
			out = append(out, v)
		}
	}
	assert.NotEmpty(t, out)
	assert.Less(t, len(out), 4)
}

func TestSMAIndicator_InvalidConfig(t *testing.T) {
	_, err := NewSMA(DefaultConfig(0))
	assert.Error(t, err)
}
