package base

import (
	"math"
	"time"

	"github.com/ducminhle1904/market-timing/internal/indicators"
	"github.com/ducminhle1904/market-timing/internal/indicators/common"
	"github.com/ducminhle1904/market-timing/internal/period"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// ATR represents the Average True Range technical indicator.
// For non-daily periodicities the candles of one period are merged into a
// single candle before the true range is taken.
type ATR struct {
	cfg    indicators.Config
	period *period.Period
	smma   *common.SMMA

	pending    types.OHLCV
	hasPending bool

	lastClose float64
	hasClose  bool
	lastValue float64
	hasValue  bool
}

// NewATR creates a new ATR indicator. Source and Preprocessing are ignored.
func NewATR(cfg indicators.Config) (*ATR, error) {
	if err := cfg.Validate("ATR"); err != nil {
		return nil, err
	}
	return &ATR{
		cfg:    cfg,
		period: period.New(cfg.Periodicity),
		smma:   common.NewSMMA(cfg.NumberOfPeriods),
	}, nil
}

// Calculate implements indicators.Indicator
func (a *ATR) Calculate(instant time.Time, candle types.OHLCV) (float64, bool) {
	if a.cfg.Periodicity == period.Daily {
		return a.update(candle), true
	}

	var (
		result float64
		ok     bool
	)
	if a.period.ChangeOfPeriod(instant) {
		if a.hasPending {
			result, ok = a.update(a.pending), true
		}
		a.pending = candle
		a.hasPending = true
		return result, ok
	}

	a.pending.High = math.Max(a.pending.High, candle.High)
	a.pending.Low = math.Min(a.pending.Low, candle.Low)
	a.pending.Close = candle.Close
	a.pending.Volume += candle.Volume
	a.pending.Timestamp = candle.Timestamp
	return result, ok
}

func (a *ATR) update(candle types.OHLCV) float64 {
	tr := candle.High - candle.Low
	if a.hasClose {
		tr = TrueRange(candle, a.lastClose)
	}
	a.lastClose = candle.Close
	a.hasClose = true

	a.lastValue = a.smma.UpdateSingle(tr)
	a.hasValue = true
	return a.lastValue
}

// TrueRange is max(prevClose, high) - min(prevClose, low)
func TrueRange(candle types.OHLCV, prevClose float64) float64 {
	return math.Max(prevClose, candle.High) - math.Min(prevClose, candle.Low)
}

// GetName returns the indicator name
func (a *ATR) GetName() string {
	return "ATR"
}

// GetLastValue returns the last calculated ATR value
func (a *ATR) GetLastValue() (float64, bool) {
	return a.lastValue, a.hasValue
}

// GetPeriod returns the period used for ATR calculation
func (a *ATR) GetPeriod() int {
	return a.cfg.NumberOfPeriods
}
