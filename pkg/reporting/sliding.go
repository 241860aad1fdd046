package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/ducminhle1904/market-timing/internal/indicators/common"
)

// UnitOfTime is the calendar unit of a sliding window
type UnitOfTime int

const (
	Day UnitOfTime = iota
	Month
	Year
)

func (u UnitOfTime) String() string {
	switch u {
	case Day:
		return "DAY"
	case Month:
		return "MONTH"
	case Year:
		return "YEAR"
	default:
		return fmt.Sprintf("UnitOfTime(%d)", int(u))
	}
}

// AddTo moves t forward by n units using calendar arithmetic
func (u UnitOfTime) AddTo(t time.Time, n int) time.Time {
	switch u {
	case Month:
		return t.AddDate(0, n, 0)
	case Year:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

func ParseUnitOfTime(s string) (UnitOfTime, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DAY", "DAYS":
		return Day, nil
	case "MONTH", "MONTHS":
		return Month, nil
	case "YEAR", "YEARS":
		return Year, nil
	}
	return Day, fmt.Errorf("unknown unit of time %q", s)
}

// SlidingConfig parameterises every sliding preprocessor
type SlidingConfig struct {
	Source     string
	Over       int
	UnitOfTime UnitOfTime
	Output     string
}

// WindowRecord accumulates the samples of one calendar window
type WindowRecord interface {
	Compute(instant time.Time, y float64)
	Value() (float64, bool)
}

// RecordFactory opens a new window record at instant
type RecordFactory func(instant time.Time) WindowRecord

type slidingWindow struct {
	endDate time.Time
	record  WindowRecord
}

// SlidingPreProcessor opens a window every cycle its source is seen and
// keeps every open window fed. Windows whose end date has been reached are
// drained when reporting; only the most recently opened drained window is
// emitted, so irregular sampling still yields one value per elapsed window.
type SlidingPreProcessor struct {
	cfg       SlidingConfig
	newRecord RecordFactory

	instant time.Time
	windows []slidingWindow
}

// NewSlidingPreProcessor wires a record factory into the window logic
func NewSlidingPreProcessor(cfg SlidingConfig, factory RecordFactory) *SlidingPreProcessor {
	return &SlidingPreProcessor{
		cfg:       cfg,
		newRecord: factory,
	}
}

func (s *SlidingPreProcessor) StartReportingCycle(instant time.Time) {
	s.instant = instant
}

func (s *SlidingPreProcessor) ReceiveData(data ReportedData) {
	if data.SourceName != s.cfg.Source {
		return
	}
	s.windows = append(s.windows, slidingWindow{
		endDate: s.cfg.UnitOfTime.AddTo(s.instant, s.cfg.Over),
		record:  s.newRecord(s.instant),
	})
	for _, w := range s.windows {
		w.record.Compute(s.instant, data.Y)
	}
}

func (s *SlidingPreProcessor) ReportTo(r Report) {
	var (
		last    float64
		hasLast bool
	)
	open := s.windows[:0]
	for _, w := range s.windows {
		if w.endDate.After(s.instant) {
			open = append(open, w)
			continue
		}
		if v, ok := w.record.Value(); ok {
			last, hasLast = v, true
		}
	}
	for i := len(open); i < len(s.windows); i++ {
		s.windows[i] = slidingWindow{}
	}
	s.windows = open

	if hasLast {
		r.ReceiveData(ReportedData{SourceName: s.cfg.Output, Y: last})
	}
}

// OpenWindows returns the number of windows in flight
func (s *SlidingPreProcessor) OpenWindows() int {
	return len(s.windows)
}

// NewSlidingPerformance emits the annualized percentage change over each window
func NewSlidingPerformance(cfg SlidingConfig) *SlidingPreProcessor {
	return NewSlidingPreProcessor(cfg, func(time.Time) WindowRecord { return &performanceRecord{} })
}

// NewSlidingRegression emits the linear regression slope per year over each window
func NewSlidingRegression(cfg SlidingConfig) *SlidingPreProcessor {
	return NewSlidingPreProcessor(cfg, func(time.Time) WindowRecord {
		return &regressionRecord{regression: common.NewLinearRegression()}
	})
}

// NewSlidingLowess emits the LOWESS estimate of each window's middle sample
func NewSlidingLowess(cfg SlidingConfig) *SlidingPreProcessor {
	return NewSlidingPreProcessor(cfg, func(time.Time) WindowRecord {
		return &lowessRecord{lowess: common.NewLowess()}
	})
}

type performanceRecord struct {
	first, last time.Time
	y0, y       float64
	seen        bool
}

func (p *performanceRecord) Compute(instant time.Time, y float64) {
	if !p.seen {
		p.first, p.y0, p.seen = instant, y, true
	}
	p.last, p.y = instant, y
}

// Value is 100*(y-y0)/y0 annualized by 365/days
func (p *performanceRecord) Value() (float64, bool) {
	if !p.seen || p.y0 == 0 {
		return 0, false
	}
	perf := 100 * (p.y - p.y0) / p.y0
	days := p.last.Sub(p.first).Hours() / 24
	if days > 0 {
		perf *= 365 / days
	}
	return perf, true
}

type regressionRecord struct {
	regression *common.LinearRegression
}

func (r *regressionRecord) Compute(instant time.Time, y float64) {
	r.regression.AddDated(instant, y)
}

func (r *regressionRecord) Value() (float64, bool) {
	if r.regression.Count() < 2 {
		return 0, false
	}
	return r.regression.Slope(), true
}

type lowessRecord struct {
	lowess *common.Lowess
}

func (l *lowessRecord) Compute(instant time.Time, y float64) {
	l.lowess.AddDated(instant, y)
}

func (l *lowessRecord) Value() (float64, bool) {
	return l.lowess.Estimate()
}
