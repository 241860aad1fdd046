package oscillators

import (
	"fmt"
	"math"
	"strings"
	"time"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/indicators"
	"github.com/ducminhle1904/market-timing/internal/indicators/common"
)

// RSIAverage selects how up and down moves are averaged
type RSIAverage int

const (
	RSIWilder RSIAverage = iota // smoothed moving average, k = 1/N
	RSICutler                   // simple moving average
	RSIEMA                      // exponential moving average, k = 2/(N+1)
)

func (a RSIAverage) String() string {
	switch a {
	case RSIWilder:
		return "WILDER"
	case RSICutler:
		return "CUTLER"
	case RSIEMA:
		return "EMA"
	default:
		return fmt.Sprintf("RSIAverage(%d)", int(a))
	}
}

func ParseRSIAverage(s string) (RSIAverage, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "WILDER", "SMMA":
		return RSIWilder, nil
	case "CUTLER", "SMA":
		return RSICutler, nil
	case "EMA":
		return RSIEMA, nil
	}
	return RSIWilder, fmt.Errorf("unknown RSI average %q", s)
}

// RSIConfig configures an RSI
type RSIConfig struct {
	indicators.Config
	Average RSIAverage
}

// RSI calculates the Relative Strength Index
type RSI struct {
	*indicators.SourceIndicator
	average  RSIAverage
	up       common.Average
	down     common.Average
	previous float64
	started  bool
}

// NewRSI fails on an unknown averaging kind
func NewRSI(cfg RSIConfig) (*RSI, error) {
	newAverage, err := averageFactory(cfg.Average)
	if err != nil {
		return nil, err
	}

	r := &RSI{
		average: cfg.Average,
		up:      newAverage(cfg.NumberOfPeriods),
		down:    newAverage(cfg.NumberOfPeriods),
	}
	si, err := indicators.NewSourceIndicator("RSI", cfg.Config, r)
	if err != nil {
		return nil, err
	}
	r.SourceIndicator = si
	return r, nil
}

func averageFactory(kind RSIAverage) (func(int) common.Average, error) {
	switch kind {
	case RSIWilder:
		return func(n int) common.Average { return common.NewSMMA(n) }, nil
	case RSICutler:
		return func(n int) common.Average { return common.NewSMA(n) }, nil
	case RSIEMA:
		return func(n int) common.Average { return common.NewEMA(n) }, nil
	}
	return nil, errs.NewConfigurationError("RSI", "NewRSI", "unknown RSI average").
		WithContext("average", int(kind))
}

// Compute implements indicators.Computer. The first value only primes the
// previous value.
func (r *RSI) Compute(_ time.Time, value float64) (float64, bool) {
	if !r.started {
		r.previous = value
		r.started = true
		return 0, false
	}

	delta := value - r.previous
	r.previous = value

	avgUp := r.up.UpdateSingle(math.Max(delta, 0))
	avgDown := r.down.UpdateSingle(math.Max(-delta, 0))

	return rsiFromAverages(avgUp, avgDown), true
}

func rsiFromAverages(avgUp, avgDown float64) float64 {
	if avgDown == 0 {
		if avgUp == 0 {
			return 50
		}
		return 100
	}
	return 100 - 100/(1+avgUp/avgDown)
}

func (r *RSI) GetAverage() RSIAverage { return r.average }
