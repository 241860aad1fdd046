package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMAIndicator_Daily(t *testing.T) {
	ema, err := NewEMA(DefaultConfig(3))
	require.NoError(t, err)
	assert.Equal(t, "EMA", ema.GetName())

	out := feedCloses(ema, 2, 4, 6, 8)
	require.Len(t, out, 4)
	assert.InDelta(t, 2.0, out[0], 1e-9)
	assert.InDelta(t, 3.0, out[1], 1e-9)
	// k = 0.5 from the third sample onward
	assert.InDelta(t, 6*0.5+3*0.5, out[2], 1e-9)
	assert.InDelta(t, 8*0.5+4.5*0.5, out[3], 1e-9)
}

func TestEMAIndicator_ForceLastValue(t *testing.T) {
	ema, err := NewEMA(DefaultConfig(3))
	require.NoError(t, err)

	ema.ForceLastValue(10)
	out := feedCloses(ema, 20)
	assert.InDelta(t, 15.0, out[0], 1e-9)
}
