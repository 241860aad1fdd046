// Package reporting implements the push-based reporting bus: reporters emit
// ReportedData once per reporting cycle, preprocessors transform it and
// reports collect it.
//
// A cycle for one instant runs StartReportingCycle, then CollectReports, then
// optionally CompleteReport at the end of a run. Phases never interleave.
package reporting

import "time"

// ReportedData is the unit of communication on the reporting bus
type ReportedData struct {
	SourceName string
	Y          float64
}

// Reporter pushes data to the reports it is registered with
type Reporter interface {
	// DoRegister registers the reporter with r
	DoRegister(r Report)
	StartReportingCycle(instant time.Time)
	// ReportTo pushes zero or more values into r.ReceiveData
	ReportTo(r Report)
}

// Report receives data from its reporters
type Report interface {
	Register(reporter Reporter)
	StartReportingCycle(instant time.Time)
	ReceiveData(data ReportedData)
	// CollectReports asks every registered reporter to report to this report
	CollectReports()
	CompleteReport()
}

// PreProcessor transforms data received during a cycle and re-emits it,
// usually under a different source name
type PreProcessor interface {
	StartReportingCycle(instant time.Time)
	ReceiveData(data ReportedData)
	ReportTo(r Report)
}

// reportBase carries the bookkeeping shared by leaf reports
type reportBase struct {
	reporters []Reporter
	instant   time.Time
	starting  bool
}

func (b *reportBase) Register(reporter Reporter) {
	b.reporters = append(b.reporters, reporter)
}

// startCycle records the instant and propagates the cycle to the reporters.
// Reporters that start the cycle back on this report are ignored.
func (b *reportBase) startCycle(instant time.Time) {
	if b.starting {
		return
	}
	b.starting = true
	defer func() { b.starting = false }()

	b.instant = instant
	for _, r := range b.reporters {
		r.StartReportingCycle(instant)
	}
}

func (b *reportBase) collect(self Report) {
	for _, r := range b.reporters {
		r.ReportTo(self)
	}
}

// Instant returns the instant of the current cycle
func (b *reportBase) Instant() time.Time {
	return b.instant
}
