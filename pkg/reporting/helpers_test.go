package reporting

import (
	"time"
)

var epoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// valueReporter reports the next value of ys under source every cycle
type valueReporter struct {
	source string
	ys     []float64
	next   int
	starts int
}

func (v *valueReporter) DoRegister(r Report) { r.Register(v) }

func (v *valueReporter) StartReportingCycle(time.Time) { v.starts++ }

func (v *valueReporter) ReportTo(r Report) {
	if v.next >= len(v.ys) {
		return
	}
	r.ReceiveData(ReportedData{SourceName: v.source, Y: v.ys[v.next]})
	v.next++
}

// dailyReporter reports a value computed from the cycle instant
type dailyReporter struct {
	source  string
	instant time.Time
	value   func(time.Time) float64
}

func (d *dailyReporter) DoRegister(r Report) { r.Register(d) }

func (d *dailyReporter) StartReportingCycle(instant time.Time) { d.instant = instant }

func (d *dailyReporter) ReportTo(r Report) {
	r.ReceiveData(ReportedData{SourceName: d.source, Y: d.value(d.instant)})
}

// runCycles drives root through one cycle per day starting at start
func runCycles(root *Reports, start time.Time, days int) {
	for i := 0; i < days; i++ {
		root.StartReportingCycle(start.AddDate(0, 0, i))
		root.CollectReports()
	}
	root.CompleteReport()
}

func ys(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Y
	}
	return out
}
