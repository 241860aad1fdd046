package timing

import (
	"time"

	"github.com/ducminhle1904/market-timing/internal/indicators"
	"github.com/ducminhle1904/market-timing/pkg/reporting"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// IndicatorReporter feeds one asset into any indicator and reports its value
// under name. It has no status.
type IndicatorReporter struct {
	name      string
	assetName string
	indicator indicators.Indicator

	reported bool
}

func NewIndicatorReporter(name, assetName string, indicator indicators.Indicator) *IndicatorReporter {
	return &IndicatorReporter{name: name, assetName: assetName, indicator: indicator}
}

func (ir *IndicatorReporter) Name() string { return ir.name }

// Record updates the indicator with the quote of the asset, if present
func (ir *IndicatorReporter) Record(iq types.InstantQuotes) {
	q, ok := iq.Quote(ir.assetName)
	if !ok {
		return
	}
	if _, ok := ir.indicator.Calculate(iq.Instant, q.OHLCV); ok {
		ir.reported = false
	}
}

func (ir *IndicatorReporter) DoRegister(r reporting.Report) { r.Register(ir) }

func (ir *IndicatorReporter) StartReportingCycle(time.Time) {}

// ReportTo emits the latest value once per computed value
func (ir *IndicatorReporter) ReportTo(r reporting.Report) {
	if ir.reported {
		return
	}
	v, ok := ir.indicator.GetLastValue()
	if !ok {
		return
	}
	ir.reported = true
	r.ReceiveData(reporting.ReportedData{SourceName: ir.name, Y: v})
}
