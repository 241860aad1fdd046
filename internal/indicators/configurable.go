package indicators

import (
	"time"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/period"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// Config is shared by every period-gated indicator
type Config struct {
	NumberOfPeriods int
	Periodicity     period.Periodicity
	Source          Source
	Preprocessing   Preprocessing
}

// DefaultConfig is a daily close-based configuration over n periods
func DefaultConfig(n int) Config {
	return Config{
		NumberOfPeriods: n,
		Periodicity:     period.Daily,
		Source:          SourceClose,
		Preprocessing:   PreprocessingLast,
	}
}

// Validate checks the enums and the period count
func (c Config) Validate(component string) error {
	if c.NumberOfPeriods < 1 {
		return errs.NewConfigurationError(component, "Validate", "number of periods must be positive").
			WithContext("numberOfPeriods", c.NumberOfPeriods)
	}
	if !c.Periodicity.Valid() {
		return errs.NewConfigurationError(component, "Validate", "unknown periodicity").
			WithContext("periodicity", int(c.Periodicity))
	}
	if !c.Source.Valid() {
		return errs.NewConfigurationError(component, "Validate", "unknown source").
			WithContext("source", int(c.Source))
	}
	if !c.Preprocessing.Valid() {
		return errs.NewConfigurationError(component, "Validate", "unknown preprocessing").
			WithContext("preprocessing", int(c.Preprocessing))
	}
	return nil
}

// SourceIndicator extracts one scalar per candlestick, buffers it across the
// configured period and hands the reduced value of each completed period to
// its Computer. DAILY indicators skip the buffer and compute every call.
type SourceIndicator struct {
	name     string
	config   Config
	period   *period.Period
	buffer   []float64
	computer Computer

	lastValue float64
	hasValue  bool
}

// NewSourceIndicator wires a Computer into the period buffering logic
func NewSourceIndicator(name string, cfg Config, computer Computer) (*SourceIndicator, error) {
	if err := cfg.Validate(name); err != nil {
		return nil, err
	}
	return &SourceIndicator{
		name:     name,
		config:   cfg,
		period:   period.New(cfg.Periodicity),
		computer: computer,
	}, nil
}

// Calculate implements Indicator
func (s *SourceIndicator) Calculate(instant time.Time, candle types.OHLCV) (float64, bool) {
	value := s.config.Source.Extract(candle)

	if s.config.Periodicity == period.Daily {
		return s.emit(s.computer.Compute(instant, value))
	}

	var (
		result float64
		ok     bool
	)
	if s.period.ChangeOfPeriod(instant) {
		if len(s.buffer) > 0 {
			result, ok = s.emit(s.computer.Compute(instant, s.config.Preprocessing.Reduce(s.buffer)))
		}
		s.buffer = s.buffer[:0]
	}
	s.buffer = append(s.buffer, value)
	return result, ok
}

func (s *SourceIndicator) emit(v float64, ok bool) (float64, bool) {
	if ok {
		s.lastValue = v
		s.hasValue = true
	}
	return v, ok
}

func (s *SourceIndicator) GetName() string { return s.name }

func (s *SourceIndicator) GetLastValue() (float64, bool) { return s.lastValue, s.hasValue }

func (s *SourceIndicator) GetConfig() Config { return s.config }
