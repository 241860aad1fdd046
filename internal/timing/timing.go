// Package timing implements market-timing state machines. Each one follows a
// single asset, feeds its quotes into one or more indicators and flips a
// BULL/BEAR status when its transition rule fires. Every timing is also a
// reporting.Reporter emitting its internal series under "<id>.<series>".
package timing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/ducminhle1904/market-timing/internal/logger"
	"github.com/ducminhle1904/market-timing/internal/monitoring"
	"github.com/ducminhle1904/market-timing/pkg/reporting"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// MarketTiming is a BULL/BEAR state machine over one asset
type MarketTiming interface {
	reporting.Reporter

	AssetName() string
	ID() string
	Status() types.BearBull
	// Transitions returns the number of status changes so far
	Transitions() int
	// Record updates the timing with the quote of its asset, if present.
	// The status changes at most once per call.
	Record(iq types.InstantQuotes)
}

// Option customises the shared state of a timing
type Option func(*Base)

// WithID overrides the generated id
func WithID(id string) Option {
	return func(b *Base) { b.id = id }
}

func WithLogger(l *log.Logger) Option {
	return func(b *Base) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithMetrics(m monitoring.Recorder) Option {
	return func(b *Base) {
		if m != nil {
			b.metrics = m
		}
	}
}

// WithInitialStatus sets the status before the first transition; BEAR by default
func WithInitialStatus(s types.BearBull) Option {
	return func(b *Base) { b.status = s }
}

// Base holds what every timing shares
type Base struct {
	kind        string
	assetName   string
	id          string
	status      types.BearBull
	transitions int

	logger  *log.Logger
	metrics monitoring.Recorder
}

func newBase(kind, assetName string, opts []Option) Base {
	b := Base{
		kind:      kind,
		assetName: assetName,
		status:    types.Bear,
		logger:    logger.Nop(),
		metrics:   monitoring.NopRecorder{},
	}
	for _, opt := range opts {
		opt(&b)
	}
	if b.id == "" {
		b.id = strings.ToLower(kind) + "-" + uuid.NewString()[:8]
	}

	b.logger.Debug().
		Str("timing", b.id).
		Str("kind", kind).
		Str("asset", assetName).
		Str("status", b.status.String()).
		Msg("market timing created")
	return b
}

func (b *Base) AssetName() string             { return b.assetName }
func (b *Base) ID() string                    { return b.id }
func (b *Base) Status() types.BearBull        { return b.status }
func (b *Base) Transitions() int              { return b.transitions }
func (b *Base) StartReportingCycle(time.Time) {}

// quote looks up the quote of the asset and counts the bar
func (b *Base) quote(iq types.InstantQuotes) (types.Quote, bool) {
	q, ok := iq.Quote(b.assetName)
	if ok {
		b.metrics.RecordBar(b.id, b.assetName)
	}
	return q, ok
}

// transition moves to status to, doing nothing if already there
func (b *Base) transition(instant time.Time, to types.BearBull, reason string, value float64) {
	if to == b.status {
		return
	}
	from := b.status
	b.status = to
	b.transitions++
	b.metrics.RecordTransition(b.id, to)

	b.logger.Info().
		Str("timing", b.id).
		Str("asset", b.assetName).
		Time("instant", instant).
		Str("from", from.String()).
		Str("to", to.String()).
		Str("reason", reason).
		Float64("value", value).
		Msg("status transition")
}

// SeriesName returns the reported source name of one series of a timing
func SeriesName(id, series string) string {
	return id + "." + series
}

// emitter pushes the series of one timing into a report
type emitter struct {
	base   *Base
	report reporting.Report
	count  int
}

func (b *Base) emitter(r reporting.Report) *emitter {
	return &emitter{base: b, report: r}
}

func (e *emitter) emit(series string, y float64) {
	e.report.ReceiveData(reporting.ReportedData{SourceName: SeriesName(e.base.id, series), Y: y})
	e.count++
}

// done emits the status and trigger series shared by every timing
func (e *emitter) done() {
	e.emit("status", e.base.status.Sign())
	e.emit("triggers", float64(e.base.transitions))
	e.base.metrics.RecordValues(e.base.id, e.count)
}
