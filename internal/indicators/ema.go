package indicators

import (
	"time"

	"github.com/ducminhle1904/market-timing/internal/indicators/common"
)

// EMAIndicator emits one exponential moving average value per period
type EMAIndicator struct {
	*SourceIndicator
	ema *common.EMA
}

// NewEMA creates an EMA over cfg.NumberOfPeriods periods
func NewEMA(cfg Config) (*EMAIndicator, error) {
	e := &EMAIndicator{ema: common.NewEMA(cfg.NumberOfPeriods)}
	si, err := NewSourceIndicator("EMA", cfg, e)
	if err != nil {
		return nil, err
	}
	e.SourceIndicator = si
	return e, nil
}

// Compute implements Computer
func (e *EMAIndicator) Compute(_ time.Time, value float64) (float64, bool) {
	return e.ema.UpdateSingle(value), true
}

// ForceLastValue seeds the average, used when resuming a series midway
func (e *EMAIndicator) ForceLastValue(value float64) {
	e.ema.ForceLastValue(value)
}
