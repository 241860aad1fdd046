package config

import (
	"time"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/indicators"
	"github.com/ducminhle1904/market-timing/internal/indicators/base"
	"github.com/ducminhle1904/market-timing/internal/indicators/oscillators"
	"github.com/ducminhle1904/market-timing/internal/period"
	"github.com/ducminhle1904/market-timing/internal/timing"
	"github.com/ducminhle1904/market-timing/pkg/data"
	"github.com/ducminhle1904/market-timing/pkg/reporting"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// Plan is a strategy converted to ready-to-wire components
type Plan struct {
	Timings       []timing.MarketTiming
	Indicators    []*timing.IndicatorReporter
	PreProcessors []reporting.PreProcessor
	Highlights    []*reporting.Highlight
	Series        []string
}

// Assets returns every asset a timing or an indicator reads, in order of
// first appearance
func (s *Strategy) Assets() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(a string) {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	for _, t := range s.Timings {
		add(t.Asset)
	}
	for _, ir := range s.Indicators {
		add(ir.Asset)
	}
	return out
}

// Build converts the strategy into components. opts are applied to every
// timing before its own id and initial status.
func (s *Strategy) Build(opts ...timing.Option) (*Plan, error) {
	plan := &Plan{Series: s.Series}

	for i, spec := range s.Timings {
		t, err := spec.Build(opts...)
		if err != nil {
			return nil, withIndex(err, "timing", i)
		}
		plan.Timings = append(plan.Timings, t)
	}
	for i, spec := range s.Indicators {
		ir, err := spec.Build()
		if err != nil {
			return nil, withIndex(err, "indicator", i)
		}
		plan.Indicators = append(plan.Indicators, ir)
	}
	for i, spec := range s.PreProcessors {
		p, err := spec.Build()
		if err != nil {
			return nil, withIndex(err, "preprocessor", i)
		}
		plan.PreProcessors = append(plan.PreProcessors, p)
	}
	for _, spec := range s.Highlights {
		plan.Highlights = append(plan.Highlights, spec.Build())
	}
	return plan, nil
}

// Config parses the enums of s into an indicator configuration
func (s IndicatorSpec) Config() (indicators.Config, error) {
	return indicatorConfig(s.Periods, s.Periodicity, s.Source, s.Preprocessing)
}

func indicatorConfig(n int, periodicity, source, preprocessing string) (indicators.Config, error) {
	cfg := indicators.DefaultConfig(n)
	var err error
	if periodicity != "" {
		if cfg.Periodicity, err = period.ParsePeriodicity(periodicity); err != nil {
			return cfg, configError("periodicity", err)
		}
	}
	if cfg.Source, err = indicators.ParseSource(source); err != nil {
		return cfg, configError("source", err)
	}
	if cfg.Preprocessing, err = indicators.ParsePreprocessing(preprocessing); err != nil {
		return cfg, configError("preprocessing", err)
	}
	return cfg, nil
}

// Build creates the market timing described by t
func (t TimingSpec) Build(opts ...timing.Option) (timing.MarketTiming, error) {
	if err := t.validateKind(); err != nil {
		return nil, err
	}

	opts = append([]timing.Option(nil), opts...)
	if t.ID != "" {
		opts = append(opts, timing.WithID(t.ID))
	}
	switch t.Initial {
	case "bull":
		opts = append(opts, timing.WithInitialStatus(types.Bull))
	case "bear":
		opts = append(opts, timing.WithInitialStatus(types.Bear))
	}

	switch t.Kind {
	case "ema":
		fast, err := t.Fast.Config()
		if err != nil {
			return nil, err
		}
		slow, err := t.Slow.Config()
		if err != nil {
			return nil, err
		}
		return timing.NewEMATiming(t.Asset, timing.EMAConfig{
			Fast:      fast,
			Slow:      slow,
			Threshold: t.Threshold,
			Offset:    t.Offset,
		}, opts...)

	case "macd":
		cfg, err := indicatorConfig(t.MACD.Slow, t.MACD.Periodicity, t.MACD.Source, t.MACD.Preprocessing)
		if err != nil {
			return nil, err
		}
		return timing.NewMACDTiming(t.Asset, oscillators.MACDConfig{
			Config:        cfg,
			FastPeriods:   t.MACD.Fast,
			SlowPeriods:   t.MACD.Slow,
			SignalPeriods: t.MACD.Signal,
		}, opts...)

	case "rsi":
		cfg, err := t.Indicator.Config()
		if err != nil {
			return nil, err
		}
		average, err := oscillators.ParseRSIAverage(t.Average)
		if err != nil {
			return nil, configError("average", err)
		}
		return timing.NewRSITiming(t.Asset, timing.RSIConfig{
			RSIConfig:      oscillators.RSIConfig{Config: cfg, Average: average},
			LowerThreshold: t.Lower,
			UpperThreshold: t.Upper,
		}, opts...)

	case "momentum":
		cfg, err := t.Indicator.Config()
		if err != nil {
			return nil, err
		}
		return timing.NewMomentumTiming(t.Asset, timing.MomentumConfig{
			Config:         cfg,
			LowerThreshold: t.Lower,
			UpperThreshold: t.Upper,
		}, opts...)
	}
	return nil, errs.NewConfigurationError("Config", "BuildTiming", "unknown timing kind").
		WithContext("kind", t.Kind)
}

// Build creates the indicator and wraps it into a reporter
func (s IndicatorReporterSpec) Build() (*timing.IndicatorReporter, error) {
	cfg, err := s.Indicator.Config()
	if err != nil {
		return nil, err
	}

	var ind indicators.Indicator
	switch s.Kind {
	case "atr":
		ind, err = base.NewATR(cfg)
	case "ema":
		ind, err = indicators.NewEMA(cfg)
	case "gap":
		ind, err = indicators.NewGap(indicators.GapConfig{Config: cfg, MaximumGapWidth: s.GapWidth})
	case "momentum":
		ind, err = indicators.NewMomentum(cfg)
	case "sma":
		ind, err = indicators.NewSMA(cfg)
	case "rsi":
		var average oscillators.RSIAverage
		if average, err = oscillators.ParseRSIAverage(s.Average); err != nil {
			return nil, configError("average", err)
		}
		ind, err = oscillators.NewRSI(oscillators.RSIConfig{Config: cfg, Average: average})
	default:
		return nil, errs.NewConfigurationError("Config", "BuildIndicator", "unknown indicator kind").
			WithContext("kind", s.Kind)
	}
	if err != nil {
		return nil, err
	}
	return timing.NewIndicatorReporter(s.Name, s.Asset, ind), nil
}

// Build creates the preprocessor described by s
func (s PreProcessorSpec) Build() (reporting.PreProcessor, error) {
	switch s.Kind {
	case "scale":
		return reporting.Scale(s.Source, s.Output, s.Factor), nil
	case "offset":
		return reporting.Offset(s.Source, s.Output, s.Delta), nil
	}

	unit := reporting.Year
	if s.Unit != "" {
		var err error
		if unit, err = reporting.ParseUnitOfTime(s.Unit); err != nil {
			return nil, configError("unit", err)
		}
	}
	cfg := reporting.SlidingConfig{Source: s.Source, Over: s.Over, UnitOfTime: unit, Output: s.Output}
	switch s.Kind {
	case "performance":
		return reporting.NewSlidingPerformance(cfg), nil
	case "regression":
		return reporting.NewSlidingRegression(cfg), nil
	case "lowess":
		return reporting.NewSlidingLowess(cfg), nil
	}
	return nil, errs.NewConfigurationError("Config", "BuildPreProcessor", "unknown preprocessor kind").
		WithContext("kind", s.Kind)
}

func (s HighlightSpec) Build() *reporting.Highlight {
	switch s.Kind {
	case "min":
		return reporting.NewMinHighlight(s.Name, s.Source)
	case "avg":
		return reporting.NewAvgHighlight(s.Name, s.Source)
	case "std":
		return reporting.NewStdHighlight(s.Name, s.Source)
	default:
		return reporting.NewMaxHighlight(s.Name, s.Source)
	}
}

// Range returns the date bounds of the data section; zero bounds are open
func (d DataSpec) Range() (start, end time.Time, err error) {
	if d.Start != "" {
		if start, err = time.Parse(time.DateOnly, d.Start); err != nil {
			return start, end, configError("start", err)
		}
	}
	if d.End != "" {
		if end, err = time.Parse(time.DateOnly, d.End); err != nil {
			return start, end, configError("end", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		return start, end, errs.NewConfigurationError("Config", "Range", "end must be after start").
			WithContext("start", d.Start).
			WithContext("end", d.End)
	}
	return start, end, nil
}

// Trailing returns the trailing window to keep, or 0 when unset
func (d DataSpec) Trailing() (time.Duration, error) {
	if d.Period == "" {
		return 0, nil
	}
	p, ok := data.ParseTrailingPeriod(d.Period)
	if !ok {
		return 0, errs.NewConfigurationError("Config", "Trailing", "invalid period").
			WithContext("period", d.Period)
	}
	return p, nil
}

// CSVFormat returns the column mapping named by Format
func (d DataSpec) CSVFormat() data.CSVColumnMapping {
	if d.Format == "yahoo" {
		return data.YahooCSVFormat
	}
	return data.DefaultCSVFormat
}

func configError(field string, err error) error {
	return errs.WrapError(err, errs.ErrorCategoryConfiguration, "Config", "Parse").
		WithContext("field", field)
}

func withIndex(err error, key string, i int) error {
	if e, ok := err.(*errs.EngineError); ok {
		return e.WithContext(key, i)
	}
	return err
}
