package indicators

import (
	"time"

	"github.com/ducminhle1904/market-timing/internal/indicators/common"
	"github.com/ducminhle1904/market-timing/internal/period"
)

// momentumRecord is one exponential regression window in flight
type momentumRecord struct {
	period     *period.Period
	regression *common.ExponentialRegression
}

// Momentum opens a new exponential regression on every computed value and
// retires each one after NumberOfPeriods periods, emitting CAGR * R² of the
// retired window. Windows overlap, which smooths the signal.
type Momentum struct {
	*SourceIndicator
	periods     int
	periodicity period.Periodicity
	records     []*momentumRecord
}

func NewMomentum(cfg Config) (*Momentum, error) {
	m := &Momentum{
		periods:     cfg.NumberOfPeriods,
		periodicity: cfg.Periodicity,
	}
	si, err := NewSourceIndicator("Momentum", cfg, m)
	if err != nil {
		return nil, err
	}
	m.SourceIndicator = si
	return m, nil
}

// Compute implements Computer
func (m *Momentum) Compute(instant time.Time, value float64) (float64, bool) {
	rec := &momentumRecord{
		period:     period.New(m.periodicity),
		regression: common.NewExponentialRegression(),
	}
	rec.period.TimeIsUp(instant, m.periods)
	m.records = append(m.records, rec)

	for _, r := range m.records {
		r.regression.AddDated(instant, value)
	}

	var (
		result float64
		ok     bool
	)
	for len(m.records) > 0 && m.records[0].period.TimeIsUp(instant, m.periods) {
		expired := m.records[0]
		m.records = m.records[1:]
		result = expired.regression.CAGR() * expired.regression.RSquared()
		ok = true
	}
	return result, ok
}

// OpenWindows returns the number of regression windows in flight
func (m *Momentum) OpenWindows() int {
	return len(m.records)
}
