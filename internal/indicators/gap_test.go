package indicators

import (
	"testing"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGap(t *testing.T, periods, width int) *Gap {
	t.Helper()
	g, err := NewGap(GapConfig{Config: DefaultConfig(periods), MaximumGapWidth: width})
	require.NoError(t, err)
	return g
}

func TestGap_SingleObservation(t *testing.T) {
	out := feedCloses(newTestGap(t, 5, 5), 46)
	assert.Equal(t, []float64{0}, out)
}

func TestGap_IncreasingSequence(t *testing.T) {
	out := feedCloses(newTestGap(t, 5, 5), 46, 47, 48, 49, 50)

	require.Len(t, out, 5)
	assert.InDelta(t, 4.0/46.0, out[4], 1e-12)
	assert.InDelta(t, 0.087, out[4], 1e-3)
}

func TestGap_ConstructionFailsWhenWidthExceedsPeriods(t *testing.T) {
	_, err := NewGap(GapConfig{Config: DefaultConfig(2), MaximumGapWidth: 20})

	require.Error(t, err)
	assert.True(t, errs.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "20")
	assert.Contains(t, err.Error(), "2")
}

func TestGap_WidthLimitsReference(t *testing.T) {
	// with width 1 only the immediate predecessor counts
	out := feedCloses(newTestGap(t, 1, 1), 100, 110, 121)

	require.Len(t, out, 3)
	assert.InDelta(t, 0.1, out[1], 1e-12)
	assert.InDelta(t, 0.1, out[2], 1e-12)
}

func TestGap_EvictedMaximumIsForgotten(t *testing.T) {
	// a spike at the start leaves the window after three more points
	out := feedCloses(newTestGap(t, 3, 1), 100, 200, 200, 200, 200, 200)

	require.Len(t, out, 6)
	assert.InDelta(t, 1.0, out[1], 1e-12)
	assert.InDelta(t, 1.0, out[3], 1e-12)
	assert.InDelta(t, 0.0, out[4], 1e-12)
	assert.InDelta(t, 0.0, out[5], 1e-12)
}

func TestWindowMax_RescanOnEviction(t *testing.T) {
	w := newWindowMax(3)
	for _, v := range []float64{5, 1, 2} {
		w.push(v)
	}
	m, _ := w.max()
	assert.Equal(t, 5.0, m)

	w.push(3)
	m, _ = w.max()
	assert.Equal(t, 3.0, m)
	assert.Equal(t, 3, w.len())

	w.push(0)
	w.push(0)
	m, _ = w.max()
	assert.Equal(t, 3.0, m)
	w.push(0)
	m, _ = w.max()
	assert.Equal(t, 0.0, m)
}
