package oscillators

import (
	"testing"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMACD(t *testing.T) *MACD {
	t.Helper()
	cfg := DefaultMACDConfig()
	cfg.FastPeriods, cfg.SlowPeriods, cfg.SignalPeriods = 3, 6, 3
	m, err := NewMACD(cfg)
	require.NoError(t, err)
	return m
}

func TestMACD_LineIsFastMinusSlow(t *testing.T) {
	m := newTestMACD(t)
	out := feedCloses(m, 10, 11, 12, 13, 14, 15, 16, 17)

	require.Len(t, out, 8)
	macd, signal, hist := m.GetLastValues()
	assert.InDelta(t, m.GetFastValue()-m.GetSlowValue(), macd, 1e-12)
	assert.InDelta(t, macd-signal, hist, 1e-12)
	assert.Greater(t, macd, 0.0, "rising series keeps the fast average above the slow one")
}

func TestMACD_NextStatusIsStrict(t *testing.T) {
	m := newTestMACD(t)
	assert.Equal(t, types.Bear, m.NextStatus(types.Bear), "no value yet")

	m.initialized = true
	m.lastMACD, m.lastSignal = 1.0, 1.0
	assert.Equal(t, types.Bear, m.NextStatus(types.Bear))
	assert.Equal(t, types.Bull, m.NextStatus(types.Bull))

	m.lastSignal = 0.5
	assert.Equal(t, types.Bull, m.NextStatus(types.Bear))
	assert.Equal(t, types.Bull, m.NextStatus(types.Bull))

	m.lastSignal = 1.5
	assert.Equal(t, types.Bear, m.NextStatus(types.Bull))
	assert.Equal(t, types.Bear, m.NextStatus(types.Bear))
}

func TestMACD_FlatSeriesNeverFlips(t *testing.T) {
	m := newTestMACD(t)
	status := types.Bear
	for i := 0; i < 20; i++ {
		feedCloses(m, 100)
		status = m.NextStatus(status)
	}
	assert.Equal(t, types.Bear, status)
}

func TestMACD_InvalidPeriods(t *testing.T) {
	cfg := DefaultMACDConfig()
	cfg.SignalPeriods = 0
	_, err := NewMACD(cfg)
	assert.True(t, errs.IsConfigurationError(err))
}
