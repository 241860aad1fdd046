package oscillators

import (
	"time"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/indicators"
	"github.com/ducminhle1904/market-timing/internal/indicators/common"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// MACDConfig configures a MACD. Config.NumberOfPeriods is ignored and set to
// SlowPeriods.
type MACDConfig struct {
	indicators.Config
	FastPeriods   int
	SlowPeriods   int
	SignalPeriods int
}

// DefaultMACDConfig is the classic 12/26/9 on daily closes
func DefaultMACDConfig() MACDConfig {
	return MACDConfig{
		Config:        indicators.DefaultConfig(26),
		FastPeriods:   12,
		SlowPeriods:   26,
		SignalPeriods: 9,
	}
}

// MACD represents the MACD technical indicator
type MACD struct {
	*indicators.SourceIndicator
	cfg MACDConfig

	fastEMA   *common.EMA
	slowEMA   *common.EMA
	signalEMA *common.EMA

	lastMACD      float64
	lastSignal    float64
	lastHistogram float64
	initialized   bool
}

// NewMACD creates a new MACD indicator
func NewMACD(cfg MACDConfig) (*MACD, error) {
	if cfg.FastPeriods < 1 || cfg.SlowPeriods < 1 || cfg.SignalPeriods < 1 {
		return nil, errs.NewConfigurationError("MACD", "NewMACD", "periods must be positive").
			WithContext("fast", cfg.FastPeriods).
			WithContext("slow", cfg.SlowPeriods).
			WithContext("signal", cfg.SignalPeriods)
	}
	cfg.NumberOfPeriods = cfg.SlowPeriods

	m := &MACD{
		cfg:       cfg,
		fastEMA:   common.NewEMA(cfg.FastPeriods),
		slowEMA:   common.NewEMA(cfg.SlowPeriods),
		signalEMA: common.NewEMA(cfg.SignalPeriods),
	}
	si, err := indicators.NewSourceIndicator("MACD", cfg.Config, m)
	if err != nil {
		return nil, err
	}
	m.SourceIndicator = si
	return m, nil
}

// Compute implements indicators.Computer and returns the MACD line
func (m *MACD) Compute(_ time.Time, value float64) (float64, bool) {
	m.lastMACD = m.fastEMA.UpdateSingle(value) - m.slowEMA.UpdateSingle(value)
	m.lastSignal = m.signalEMA.UpdateSingle(m.lastMACD)
	m.lastHistogram = m.lastMACD - m.lastSignal
	m.initialized = true
	return m.lastMACD, true
}

// GetLastValues returns MACD, Signal, and Histogram values
func (m *MACD) GetLastValues() (macd, signal, histogram float64) {
	return m.lastMACD, m.lastSignal, m.lastHistogram
}

// IsInitialized reports whether at least one value was computed
func (m *MACD) IsInitialized() bool { return m.initialized }

// NextStatus applies the crossover rule: BEAR turns BULL when the signal line
// is strictly below the MACD line, BULL turns BEAR when it is strictly above.
// Equality keeps the current status.
func (m *MACD) NextStatus(current types.BearBull) types.BearBull {
	if !m.initialized {
		return current
	}
	switch current {
	case types.Bear:
		if m.lastSignal < m.lastMACD {
			return types.Bull
		}
	case types.Bull:
		if m.lastSignal > m.lastMACD {
			return types.Bear
		}
	}
	return current
}

// GetFastValue and GetSlowValue expose the component averages for charting
func (m *MACD) GetFastValue() float64 { return m.fastEMA.GetLastValue() }
func (m *MACD) GetSlowValue() float64 { return m.slowEMA.GetLastValue() }
