package indicators

import (
	"testing"
	"time"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/period"
	"github.com/ducminhle1904/market-timing/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingComputer struct {
	values []float64
}

func (r *recordingComputer) Compute(_ time.Time, v float64) (float64, bool) {
	r.values = append(r.values, v)
	return v, true
}

func TestSourceIndicator_DailyComputesEveryCall(t *testing.T) {
	rec := &recordingComputer{}
	si, err := NewSourceIndicator("test", DefaultConfig(3), rec)
	require.NoError(t, err)

	out := feedCloses(si, 1, 2, 3)
	assert.Equal(t, []float64{1, 2, 3}, out)

	last, ok := si.GetLastValue()
	assert.True(t, ok)
	assert.Equal(t, 3.0, last)
}

func TestSourceIndicator_WeeklyReducesPreviousPeriod(t *testing.T) {
	rec := &recordingComputer{}
	cfg := Config{
		NumberOfPeriods: 2,
		Periodicity:     period.Weekly,
		Source:          SourceClose,
		Preprocessing:   PreprocessingTypical,
	}
	si, err := NewSourceIndicator("test", cfg, rec)
	require.NoError(t, err)

	monday := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	emitted := 0
	for day := 0; day < 15; day++ {
		ts := monday.AddDate(0, 0, day)
		_, ok := si.Calculate(ts, types.OHLCV{Close: float64(day), Timestamp: ts})
		if ok {
			emitted++
		}
		if day == 0 {
			assert.False(t, ok, "first boundary has no previous buffer")
		}
	}

	// week one is days 0..6 (mean 3), week two days 7..13 (mean 10)
	assert.Equal(t, 2, emitted)
	assert.Equal(t, []float64{3, 10}, rec.values)
}

func TestSourceIndicator_MonthlyUsesSource(t *testing.T) {
	rec := &recordingComputer{}
	cfg := Config{
		NumberOfPeriods: 1,
		Periodicity:     period.Monthly,
		Source:          SourceHigh,
		Preprocessing:   PreprocessingFirst,
	}
	si, err := NewSourceIndicator("test", cfg, rec)
	require.NoError(t, err)

	feedCloses(si, make([]float64, 40)...)
	require.Len(t, rec.values, 1)
	assert.Equal(t, 1.0, rec.values[0], "first high of January")
}

func TestConfig_Validate(t *testing.T) {
	_, err := NewSourceIndicator("test", Config{NumberOfPeriods: 0}, &recordingComputer{})
	assert.True(t, errs.IsConfigurationError(err))

	cfg := DefaultConfig(5)
	cfg.Source = Source(42)
	_, err = NewSourceIndicator("test", cfg, &recordingComputer{})
	assert.True(t, errs.IsConfigurationError(err))
}

func TestComputerFunc(t *testing.T) {
	double := ComputerFunc(func(_ time.Time, v float64) (float64, bool) { return v * 2, true })
	si, err := NewSourceIndicator("double", DefaultConfig(1), double)
	require.NoError(t, err)

	assert.Equal(t, []float64{4, 6}, feedCloses(si, 2, 3))
}
