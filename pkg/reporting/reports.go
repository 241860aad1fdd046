package reporting

import (
	"time"
)

// Reports is a composite report. It is a Report for the reporters registered
// with it and a Reporter for its child reports, to which it forwards every
// value received during the current cycle. Values are also fanned out to the
// preprocessors, whose output re-enters the composite in registration order.
type Reports struct {
	reporters     []Reporter
	children      []Report
	preProcessors []PreProcessor

	buffer          []ReportedData
	instant         time.Time
	cycleInProgress bool

	listeners []CycleListener
}

// CycleListener is notified when a composite starts a cycle
type CycleListener func(instant time.Time)

// NewReports creates an empty composite
func NewReports() *Reports {
	return &Reports{}
}

// Register implements Report
func (r *Reports) Register(reporter Reporter) {
	r.reporters = append(r.reporters, reporter)
}

// DoRegister implements Reporter
func (r *Reports) DoRegister(report Report) {
	report.Register(r)
}

// AddReporter registers a reporter with the composite
func (r *Reports) AddReporter(reporter Reporter) {
	reporter.DoRegister(r)
}

// AddReport adds a child report and registers the composite as its reporter
func (r *Reports) AddReport(child Report) {
	r.children = append(r.children, child)
	r.DoRegister(child)
}

// AddPreProcessor adds a preprocessor; chained preprocessors must be added
// in the order data flows through them
func (r *Reports) AddPreProcessor(p PreProcessor) {
	r.preProcessors = append(r.preProcessors, p)
}

// OnCycle adds a listener called once per started cycle
func (r *Reports) OnCycle(l CycleListener) {
	r.listeners = append(r.listeners, l)
}

// StartReportingCycle implements Report and Reporter. Children propagating
// the cycle back to the composite are ignored; only the call that opened the
// cycle closes the guard.
func (r *Reports) StartReportingCycle(instant time.Time) {
	if r.cycleInProgress {
		return
	}
	r.cycleInProgress = true
	defer func() { r.cycleInProgress = false }()

	r.instant = instant
	r.buffer = r.buffer[:0]

	for _, l := range r.listeners {
		l(instant)
	}
	for _, rep := range r.reporters {
		rep.StartReportingCycle(instant)
	}
	for _, p := range r.preProcessors {
		p.StartReportingCycle(instant)
	}
	for _, c := range r.children {
		c.StartReportingCycle(instant)
	}
}

// ReceiveData implements Report
func (r *Reports) ReceiveData(data ReportedData) {
	for _, p := range r.preProcessors {
		p.ReceiveData(data)
	}
	r.buffer = append(r.buffer, data)
}

// CollectReports pulls from the reporters, lets the preprocessors emit, then
// lets every child pull what was buffered
func (r *Reports) CollectReports() {
	for _, rep := range r.reporters {
		rep.ReportTo(r)
	}
	for _, p := range r.preProcessors {
		p.ReportTo(r)
	}
	for _, c := range r.children {
		c.CollectReports()
	}
}

// ReportTo implements Reporter by replaying this cycle's buffer
func (r *Reports) ReportTo(report Report) {
	for _, d := range r.buffer {
		report.ReceiveData(d)
	}
}

// CompleteReport implements Report
func (r *Reports) CompleteReport() {
	for _, c := range r.children {
		c.CompleteReport()
	}
}

// Instant returns the instant of the current cycle
func (r *Reports) Instant() time.Time {
	return r.instant
}

// Buffered returns a copy of the values received during the current cycle
func (r *Reports) Buffered() []ReportedData {
	return append([]ReportedData(nil), r.buffer...)
}
