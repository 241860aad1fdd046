package indicators

import (
	"time"

	"github.com/ducminhle1904/market-timing/pkg/types"
)

// Indicator consumes one candlestick per instant and emits a value only once
// enough periods have completed. The boolean is false while warming up or
// between period boundaries.
type Indicator interface {
	Calculate(instant time.Time, candle types.OHLCV) (float64, bool)
	GetName() string
	GetLastValue() (float64, bool)
}

// Computer is the variable step of a SourceIndicator: it receives one
// reduced value per completed period.
type Computer interface {
	Compute(instant time.Time, value float64) (float64, bool)
}

// ComputerFunc adapts a function to the Computer interface
type ComputerFunc func(instant time.Time, value float64) (float64, bool)

func (f ComputerFunc) Compute(instant time.Time, value float64) (float64, bool) {
	return f(instant, value)
}
