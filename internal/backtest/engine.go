// Package backtest replays an ordered quote stream through market timings
// and drives one reporting cycle per instant.
package backtest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/phuslu/log"

	"github.com/ducminhle1904/market-timing/internal/logger"
	"github.com/ducminhle1904/market-timing/internal/monitoring"
	"github.com/ducminhle1904/market-timing/internal/timing"
	"github.com/ducminhle1904/market-timing/pkg/reporting"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// Recordable consumes the quotes of every instant before the reporting cycle
type Recordable interface {
	Record(iq types.InstantQuotes)
}

// Engine owns the timings of one run and the root of its reporting tree
type Engine struct {
	root      *reporting.Reports
	timings   []timing.MarketTiming
	recorders []Recordable

	logger *log.Logger
	health *monitoring.HealthChecker
}

type EngineOption func(*Engine)

func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHealth reports progress to h
func WithHealth(h *monitoring.HealthChecker) EngineOption {
	return func(e *Engine) { e.health = h }
}

// NewEngine creates an engine reporting into root
func NewEngine(root *reporting.Reports, opts ...EngineOption) *Engine {
	if root == nil {
		root = reporting.NewReports()
	}
	e := &Engine{
		root:   root,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddTiming records t every instant and registers it with the root
func (e *Engine) AddTiming(t timing.MarketTiming) {
	e.timings = append(e.timings, t)
	e.root.AddReporter(t)
}

// AddIndicator records ir every instant and registers it with the root
func (e *Engine) AddIndicator(ir *timing.IndicatorReporter) {
	e.recorders = append(e.recorders, ir)
	e.root.AddReporter(ir)
}

// AddReporter registers an extra reporter that is not fed quotes
func (e *Engine) AddReporter(r reporting.Reporter) {
	e.root.AddReporter(r)
}

func (e *Engine) Root() *reporting.Reports { return e.root }

func (e *Engine) Timings() []timing.MarketTiming { return e.timings }

// Result summarises a run
type Result struct {
	Bars     int
	Start    time.Time
	End      time.Time
	Duration time.Duration
	Timings  []TimingResult
}

// TimingResult is the final state of one timing
type TimingResult struct {
	ID          string
	Asset       string
	Status      types.BearBull
	Transitions int
}

// Run replays data in order. For each instant every timing records its
// quote first, then the root runs StartReportingCycle and CollectReports.
// CompleteReport runs once at the end. The context is checked between
// instants only; a cancelled run returns the partial result with the error.
func (e *Engine) Run(ctx context.Context, data []types.InstantQuotes) (*Result, error) {
	started := time.Now()
	result := &Result{}

	e.logger.Info().
		Int("instants", len(data)).
		Int("timings", len(e.timings)).
		Msg("replay started")

	for _, iq := range data {
		if err := ctx.Err(); err != nil {
			e.finish(result, started)
			e.logger.Warn().Err(err).Int("bars", result.Bars).Msg("replay cancelled")
			return result, err
		}

		for _, t := range e.timings {
			t.Record(iq)
		}
		for _, r := range e.recorders {
			r.Record(iq)
		}

		e.root.StartReportingCycle(iq.Instant)
		e.root.CollectReports()
		monitoring.RecordCycle()

		if result.Bars == 0 {
			result.Start = iq.Instant
		}
		result.End = iq.Instant
		result.Bars++
		if e.health != nil {
			e.health.MarkInstant(iq.Instant)
		}
	}

	e.root.CompleteReport()
	e.finish(result, started)
	if e.health != nil {
		e.health.MarkDone()
	}

	e.logger.Info().
		Int("bars", result.Bars).
		Dur("duration", result.Duration).
		Msg("replay finished")
	return result, nil
}

func (e *Engine) finish(result *Result, started time.Time) {
	result.Duration = time.Since(started)
	result.Timings = result.Timings[:0]
	for _, t := range e.timings {
		result.Timings = append(result.Timings, TimingResult{
			ID:          t.ID(),
			Asset:       t.AssetName(),
			Status:      t.Status(),
			Transitions: t.Transitions(),
		})
	}
}

// PrintSummary writes a short summary of the run to w
func (r *Result) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "=== Replay Results ===\n")
	if r.Bars > 0 {
		fmt.Fprintf(w, "Period: %s .. %s\n", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
	}
	fmt.Fprintf(w, "Instants: %d\n", r.Bars)
	for _, t := range r.Timings {
		fmt.Fprintf(w, "%s (%s): %s after %d transitions\n", t.ID, t.Asset, t.Status, t.Transitions)
	}
}
