package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowess_Empty(t *testing.T) {
	_, ok := NewLowess().Estimate()
	assert.False(t, ok)
}

func TestLowess_LinearDataIsReproduced(t *testing.T) {
	l := NewLowess()
	for x := 0.0; x < 11; x++ {
		l.AddXY(x, 2*x+1)
	}

	mid, ok := l.Middle()
	require.True(t, ok)
	assert.Equal(t, 5.0, mid)

	v, ok := l.Estimate()
	require.True(t, ok)
	assert.InDelta(t, 11.0, v, 1e-9)
}

func TestLowess_OutlierIsDampened(t *testing.T) {
	l := NewLowess()
	for x := 0.0; x < 11; x++ {
		y := x
		if x == 5 {
			y = 100
		}
		l.AddXY(x, y)
	}

	// a single tricube pass lands near 21.4; the robustness pass pulls the
	// estimate back towards the line through the other points
	v, ok := l.Estimate()
	require.True(t, ok)
	assert.Greater(t, v, 5.0)
	assert.Less(t, v, 10.0)
}

func TestLowess_AddDated(t *testing.T) {
	l := NewLowess()
	start := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		l.AddDated(start.AddDate(i, 0, 0), 10)
	}

	v, ok := l.Estimate()
	require.True(t, ok)
	assert.InDelta(t, 10.0, v, 1e-9)
	assert.Equal(t, 3, l.Count())
}
