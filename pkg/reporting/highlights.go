package reporting

import (
	"time"

	"github.com/ducminhle1904/market-timing/internal/indicators/common"
)

// HighlightKind names the aggregation a Highlight performs
type HighlightKind string

const (
	HighlightMax HighlightKind = "max"
	HighlightMin HighlightKind = "min"
	HighlightAvg HighlightKind = "avg"
	HighlightStd HighlightKind = "std"
)

// HighlightResult is the outcome of a highlight at the end of a run
type HighlightResult struct {
	Name    string
	Source  string
	Kind    HighlightKind
	Value   float64
	Instant time.Time // zero unless Kind is max or min
	Samples int
	Valid   bool
}

type aggregator interface {
	add(instant time.Time, y float64)
	result() (float64, time.Time, bool)
}

// Highlight summarises one source over a whole run
type Highlight struct {
	reportBase

	name    string
	source  string
	kind    HighlightKind
	agg     aggregator
	samples int
}

func newHighlight(name, source string, kind HighlightKind, agg aggregator) *Highlight {
	return &Highlight{
		name:   name,
		source: source,
		kind:   kind,
		agg:    agg,
	}
}

// NewMaxHighlight keeps the first occurrence of the highest value
func NewMaxHighlight(name, source string) *Highlight {
	return newHighlight(name, source, HighlightMax, &extremum{better: func(a, b float64) bool { return a > b }})
}

// NewMinHighlight keeps the first occurrence of the lowest value
func NewMinHighlight(name, source string) *Highlight {
	return newHighlight(name, source, HighlightMin, &extremum{better: func(a, b float64) bool { return a < b }})
}

func NewAvgHighlight(name, source string) *Highlight {
	return newHighlight(name, source, HighlightAvg, &average{cma: common.NewCMA()})
}

func NewStdHighlight(name, source string) *Highlight {
	return newHighlight(name, source, HighlightStd, &deviation{std: common.NewStdDev()})
}

func (h *Highlight) StartReportingCycle(instant time.Time) {
	h.startCycle(instant)
}

func (h *Highlight) ReceiveData(data ReportedData) {
	if data.SourceName != h.source {
		return
	}
	h.samples++
	h.agg.add(h.instant, data.Y)
}

func (h *Highlight) CollectReports() {
	h.collect(h)
}

func (h *Highlight) CompleteReport() {}

func (h *Highlight) Name() string { return h.name }

// Result returns the current aggregate
func (h *Highlight) Result() HighlightResult {
	v, at, ok := h.agg.result()
	return HighlightResult{
		Name:    h.name,
		Source:  h.source,
		Kind:    h.kind,
		Value:   v,
		Instant: at,
		Samples: h.samples,
		Valid:   ok,
	}
}

type extremum struct {
	better func(a, b float64) bool
	value  float64
	at     time.Time
	seen   bool
}

func (e *extremum) add(instant time.Time, y float64) {
	if !e.seen || e.better(y, e.value) {
		e.value, e.at, e.seen = y, instant, true
	}
}

func (e *extremum) result() (float64, time.Time, bool) {
	return e.value, e.at, e.seen
}

type average struct {
	cma *common.CMA
}

func (a *average) add(_ time.Time, y float64) { a.cma.UpdateSingle(y) }

func (a *average) result() (float64, time.Time, bool) {
	return a.cma.GetLastValue(), time.Time{}, a.cma.Count() > 0
}

type deviation struct {
	std *common.StdDev
}

func (d *deviation) add(_ time.Time, y float64) { d.std.UpdateSingle(y) }

func (d *deviation) result() (float64, time.Time, bool) {
	return d.std.GetLastValue(), time.Time{}, d.std.Count() > 0
}
