package backtest

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/market-timing/internal/indicators"
	"github.com/ducminhle1904/market-timing/internal/indicators/base"
	"github.com/ducminhle1904/market-timing/internal/monitoring"
	"github.com/ducminhle1904/market-timing/internal/timing"
	"github.com/ducminhle1904/market-timing/pkg/reporting"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func stream(asset string, closes []float64) []types.InstantQuotes {
	out := make([]types.InstantQuotes, len(closes))
	for i, c := range closes {
		ts := epoch.AddDate(0, 0, i)
		out[i] = types.NewInstantQuotes(ts, types.Quote{
			Asset: asset,
			OHLCV: types.OHLCV{Open: c, High: c + 1, Low: c - 1, Close: c, Timestamp: ts},
		})
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

func newEMA(t *testing.T, asset string) timing.MarketTiming {
	t.Helper()
	e, err := timing.NewEMATiming(asset, timing.EMAConfig{
		Fast:      indicators.DefaultConfig(3),
		Slow:      indicators.DefaultConfig(10),
		Threshold: 0.001,
	}, timing.WithID("ema"))
	require.NoError(t, err)
	return e
}

func TestEngine_Run(t *testing.T) {
	rec := reporting.NewRecorder()
	rec.AddHighlight(reporting.NewMaxHighlight("best status", timing.SeriesName("ema", "status")))
	health := monitoring.NewHealthChecker()

	engine := NewEngine(rec.Root(), WithHealth(health))
	engine.AddTiming(newEMA(t, "SPY"))
	atr, err := base.NewATR(indicators.DefaultConfig(3))
	require.NoError(t, err)
	engine.AddIndicator(timing.NewIndicatorReporter("atr", "SPY", atr))

	data := stream("SPY", ramp(100, 1, 30))
	result, err := engine.Run(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 30, result.Bars)
	assert.Equal(t, data[0].Instant, result.Start)
	assert.Equal(t, data[29].Instant, result.End)
	require.Len(t, result.Timings, 1)
	assert.Equal(t, "ema", result.Timings[0].ID)
	assert.Equal(t, types.Bull, result.Timings[0].Status)
	assert.Equal(t, 1, result.Timings[0].Transitions)

	status := rec.Series().Points(timing.SeriesName("ema", "status"))
	require.Len(t, status, 30)
	assert.Equal(t, -1.0, status[0].Y)
	assert.Equal(t, 1.0, status[29].Y)
	assert.NotEmpty(t, rec.Series().Points("atr"))

	hl := rec.Highlights()
	require.Len(t, hl, 1)
	assert.True(t, hl[0].Valid)
	assert.Equal(t, 1.0, hl[0].Value)

	h := health.Status()
	assert.Equal(t, "done", h.Status)
	assert.Equal(t, 30, h.Bars)

	var buf bytes.Buffer
	result.PrintSummary(&buf)
	assert.Contains(t, buf.String(), "Instants: 30")
	assert.Contains(t, buf.String(), "ema (SPY)")
}

// orderProbe fails the test if a reporting cycle starts before the timing has
// seen the quote of that instant
type orderProbe struct {
	t      *testing.T
	last   time.Time
	cycles int
}

func (p *orderProbe) Record(iq types.InstantQuotes) { p.last = iq.Instant }

func (p *orderProbe) DoRegister(r reporting.Report) { r.Register(p) }

func (p *orderProbe) StartReportingCycle(instant time.Time) {
	assert.Equal(p.t, instant, p.last)
	p.cycles++
}

func (p *orderProbe) ReportTo(reporting.Report) {}

func TestEngine_RecordsBeforeReporting(t *testing.T) {
	engine := NewEngine(nil)
	probe := &orderProbe{t: t}
	engine.recorders = append(engine.recorders, probe)
	engine.AddReporter(probe)

	_, err := engine.Run(context.Background(), stream("SPY", ramp(10, 1, 5)))
	require.NoError(t, err)
	assert.Equal(t, 5, probe.cycles)
}

func TestEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(nil)
	engine.AddTiming(newEMA(t, "SPY"))

	result, err := engine.Run(ctx, stream("SPY", ramp(100, 1, 10)))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Bars)
	assert.Len(t, result.Timings, 1)
}

func TestRunBatch(t *testing.T) {
	build := func(asset string) func() (*Engine, error) {
		return func() (*Engine, error) {
			e := NewEngine(reporting.NewReports())
			e.AddTiming(newEMA(t, asset))
			return e, nil
		}
	}
	jobs := []Job{
		{ID: "spy", Build: build("SPY"), Data: stream("SPY", ramp(100, 1, 20))},
		{ID: "broken", Build: func() (*Engine, error) { return nil, errors.New("bad config") }},
		{ID: "qqq", Build: build("QQQ"), Data: stream("QQQ", ramp(100, -1, 40))},
	}

	results := RunBatch(context.Background(), 2, jobs, nil)

	require.Len(t, results, 3)
	assert.Equal(t, "spy", results[0].ID)
	require.NoError(t, results[0].Error)
	assert.Equal(t, 20, results[0].Result.Bars)

	assert.Equal(t, "broken", results[1].ID)
	assert.EqualError(t, results[1].Error, "bad config")

	require.NoError(t, results[2].Error)
	assert.Equal(t, 40, results[2].Result.Bars)
	assert.Equal(t, types.Bear, results[2].Result.Timings[0].Status)
}

func TestRunBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := make([]Job, 64)
	for i := range jobs {
		jobs[i] = Job{
			ID:    "job",
			Build: func() (*Engine, error) { return NewEngine(nil), nil },
			Data:  stream("SPY", ramp(100, 1, 5)),
		}
	}

	done := make(chan []JobResult, 1)
	go func() { done <- RunBatch(ctx, 2, jobs, nil) }()

	select {
	case results := <-done:
		require.Len(t, results, len(jobs))
		for i, r := range results {
			assert.Equal(t, "job", r.ID, "result %d", i)
			assert.ErrorIs(t, r.Error, context.Canceled, "result %d", i)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("RunBatch did not return after cancellation")
	}
}

func TestRunBatch_CancelledWhileRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs := make([]Job, 32)
	for i := range jobs {
		jobs[i] = Job{
			ID: "job",
			Build: func() (*Engine, error) {
				cancel()
				return NewEngine(nil), nil
			},
			Data: stream("SPY", ramp(100, 1, 5)),
		}
	}

	done := make(chan []JobResult, 1)
	go func() { done <- RunBatch(ctx, 4, jobs, nil) }()

	select {
	case results := <-done:
		require.Len(t, results, len(jobs))
		for _, r := range results {
			assert.ErrorIs(t, r.Error, context.Canceled)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("RunBatch did not return after cancellation")
	}
}

func TestProgressTracker(t *testing.T) {
	pt := NewProgressTracker(4)
	pt.Increment()
	pt.Increment()

	done, total, pct, _ := pt.GetProgress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 4, total)
	assert.InDelta(t, 50.0, pct, 1e-9)
}
