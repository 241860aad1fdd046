// Package config decodes strategy files and runtime settings at the edge of
// the program. Everything past this package works on typed options only.
package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
)

// Strategy is the raw content of a strategy file. Enum values are strings
// here and are parsed when the typed options are built.
type Strategy struct {
	Name          string                  `json:"name" yaml:"name" validate:"required"`
	Data          DataSpec                `json:"data" yaml:"data"`
	Timings       []TimingSpec            `json:"timings" yaml:"timings" validate:"dive"`
	Indicators    []IndicatorReporterSpec `json:"indicators,omitempty" yaml:"indicators,omitempty" validate:"dive"`
	PreProcessors []PreProcessorSpec      `json:"preprocessors,omitempty" yaml:"preprocessors,omitempty" validate:"dive"`
	Highlights    []HighlightSpec         `json:"highlights,omitempty" yaml:"highlights,omitempty" validate:"dive"`
	// Series lists the sources written to the series outputs; omitted means
	// all, an empty list means none
	Series []string `json:"series,omitempty" yaml:"series,omitempty"`
}

// DataSpec selects where candles come from
type DataSpec struct {
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=csv bybit"`
	// Path is a CSV file or a directory holding one file per asset
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=default yahoo"`
	Start  string `json:"start,omitempty" yaml:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End    string `json:"end,omitempty" yaml:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	// Period keeps only the trailing window, e.g. "5y" or "90d"
	Period   string `json:"period,omitempty" yaml:"period,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty" validate:"omitempty,oneof=spot linear inverse"`
}

// IndicatorSpec is the common indicator configuration
type IndicatorSpec struct {
	Periods       int    `json:"periods" yaml:"periods" validate:"min=1"`
	Periodicity   string `json:"periodicity,omitempty" yaml:"periodicity,omitempty"`
	Source        string `json:"source,omitempty" yaml:"source,omitempty"`
	Preprocessing string `json:"preprocessing,omitempty" yaml:"preprocessing,omitempty"`
}

// MACDSpec configures a MACD timing
type MACDSpec struct {
	Fast          int    `json:"fast" yaml:"fast" validate:"min=1"`
	Slow          int    `json:"slow" yaml:"slow" validate:"min=1,gtfield=Fast"`
	Signal        int    `json:"signal" yaml:"signal" validate:"min=1"`
	Periodicity   string `json:"periodicity,omitempty" yaml:"periodicity,omitempty"`
	Source        string `json:"source,omitempty" yaml:"source,omitempty"`
	Preprocessing string `json:"preprocessing,omitempty" yaml:"preprocessing,omitempty"`
}

// TimingSpec configures one market timing. Which fields apply depends on Kind:
// ema uses Fast, Slow, Threshold and Offset; macd uses MACD; rsi uses
// Indicator, Average, Lower and Upper; momentum uses Indicator, Lower and Upper.
type TimingSpec struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Kind  string `json:"kind" yaml:"kind" validate:"required,oneof=ema macd rsi momentum"`
	Asset string `json:"asset" yaml:"asset" validate:"required"`

	Fast      *IndicatorSpec `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow      *IndicatorSpec `json:"slow,omitempty" yaml:"slow,omitempty"`
	Threshold float64        `json:"threshold,omitempty" yaml:"threshold,omitempty" validate:"gte=0"`
	Offset    float64        `json:"offset,omitempty" yaml:"offset,omitempty"`

	MACD *MACDSpec `json:"macd,omitempty" yaml:"macd,omitempty"`

	Indicator *IndicatorSpec `json:"indicator,omitempty" yaml:"indicator,omitempty"`
	Average   string         `json:"average,omitempty" yaml:"average,omitempty"`
	Lower     float64        `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper     float64        `json:"upper,omitempty" yaml:"upper,omitempty"`

	// Initial overrides the starting status (bull or bear)
	Initial string `json:"initial,omitempty" yaml:"initial,omitempty" validate:"omitempty,oneof=bull bear"`
}

// IndicatorReporterSpec charts a raw indicator of one asset under Name
type IndicatorReporterSpec struct {
	Name      string        `json:"name" yaml:"name" validate:"required"`
	Kind      string        `json:"kind" yaml:"kind" validate:"required,oneof=atr ema gap momentum rsi sma"`
	Asset     string        `json:"asset" yaml:"asset" validate:"required"`
	Indicator IndicatorSpec `json:"indicator" yaml:"indicator"`
	// GapWidth is the maximum gap width of a gap indicator
	GapWidth int    `json:"gap_width,omitempty" yaml:"gap_width,omitempty" validate:"gte=0"`
	Average  string `json:"average,omitempty" yaml:"average,omitempty"`
}

// PreProcessorSpec attaches a preprocessor to the root report
type PreProcessorSpec struct {
	Kind   string  `json:"kind" yaml:"kind" validate:"required,oneof=scale offset performance regression lowess"`
	Source string  `json:"source" yaml:"source" validate:"required"`
	Output string  `json:"output" yaml:"output" validate:"required,nefield=Source"`
	Factor float64 `json:"factor,omitempty" yaml:"factor,omitempty"`
	Delta  float64 `json:"delta,omitempty" yaml:"delta,omitempty"`
	Over   int     `json:"over,omitempty" yaml:"over,omitempty" validate:"gte=0"`
	Unit   string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// HighlightSpec summarises one source over the whole run
type HighlightSpec struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Kind   string `json:"kind" yaml:"kind" validate:"required,oneof=max min avg std"`
	Source string `json:"source" yaml:"source" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadStrategy reads a strategy file. Files ending in .yaml or .yml are YAML,
// everything else is JSON.
func LoadStrategy(path string) (*Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.WrapError(err, errs.ErrorCategoryConfiguration, "Config", "LoadStrategy").
			WithContext("file", path)
	}

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	s, err := ParseStrategy(data, format)
	if err != nil {
		var e *errs.EngineError
		if stderrors.As(err, &e) {
			return nil, e.WithContext("file", path)
		}
		return nil, err
	}
	return s, nil
}

// ParseStrategy decodes and validates a strategy in the given format
func ParseStrategy(data []byte, format string) (*Strategy, error) {
	var s Strategy
	switch format {
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, errs.WrapError(err, errs.ErrorCategoryConfiguration, "Config", "ParseStrategy").
				WithContext("format", format)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errs.WrapError(err, errs.ErrorCategoryConfiguration, "Config", "ParseStrategy").
				WithContext("format", format)
		}
	default:
		return nil, errs.NewConfigurationError("Config", "ParseStrategy", "unsupported format").
			WithContext("format", format)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the struct tags and the rules that depend on a component's kind
func (s *Strategy) Validate() error {
	if err := validate.Struct(s); err != nil {
		return validationError(err)
	}
	if len(s.Timings) == 0 && len(s.Indicators) == 0 {
		return errs.NewConfigurationError("Config", "Validate", "strategy has neither timings nor indicators")
	}

	ids := make(map[string]int)
	for i, t := range s.Timings {
		if err := t.validateKind(); err != nil {
			return err.WithContext("timing", i)
		}
		if t.ID == "" {
			continue
		}
		if prev, ok := ids[t.ID]; ok {
			return errs.NewConfigurationError("Config", "Validate", "duplicate timing id").
				WithContext("id", t.ID).
				WithContext("first", prev).
				WithContext("second", i)
		}
		ids[t.ID] = i
	}
	for i, p := range s.PreProcessors {
		switch p.Kind {
		case "performance", "regression", "lowess":
			if p.Over < 1 {
				return errs.NewConfigurationError("Config", "Validate", "sliding window needs over >= 1").
					WithContext("preprocessor", i)
			}
		}
	}
	return nil
}

func (t TimingSpec) validateKind() *errs.EngineError {
	missing := func(field string) *errs.EngineError {
		return errs.NewConfigurationError("Config", "Validate", fmt.Sprintf("%s timing requires %s", t.Kind, field)).
			WithContext("asset", t.Asset)
	}
	switch t.Kind {
	case "ema":
		if t.Fast == nil {
			return missing("fast")
		}
		if t.Slow == nil {
			return missing("slow")
		}
	case "macd":
		if t.MACD == nil {
			return missing("macd")
		}
	case "rsi", "momentum":
		if t.Indicator == nil {
			return missing("indicator")
		}
	}
	return nil
}

// validationError reports the first failing field as a configuration error
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.WrapError(err, errs.ErrorCategoryConfiguration, "Config", "Validate")
	}
	fe := fieldErrs[0]
	e := errs.NewConfigurationError("Config", "Validate", fmt.Sprintf("field %s failed on %q", fe.Namespace(), fe.Tag())).
		WithContext("field", fe.Namespace())
	if fe.Param() != "" {
		e = e.WithContext("param", fe.Param())
	}
	if len(fieldErrs) > 1 {
		e = e.WithContext("more", len(fieldErrs)-1)
	}
	return e
}

// ForAsset keeps the timings and indicators reading asset together with the
// preprocessors, highlights and series derived from them. Timings without an
// explicit id cannot be referenced and only contribute themselves.
func (s *Strategy) ForAsset(asset string) *Strategy {
	out := *s
	out.Timings, out.Indicators, out.PreProcessors, out.Highlights, out.Series = nil, nil, nil, nil, nil

	var prefixes []string
	names := make(map[string]bool)
	produced := func(source string) bool {
		if names[source] {
			return true
		}
		for _, p := range prefixes {
			if strings.HasPrefix(source, p) {
				return true
			}
		}
		return false
	}

	for _, t := range s.Timings {
		if t.Asset != asset {
			continue
		}
		out.Timings = append(out.Timings, t)
		if t.ID != "" {
			prefixes = append(prefixes, t.ID+".")
		}
	}
	for _, ir := range s.Indicators {
		if ir.Asset == asset {
			out.Indicators = append(out.Indicators, ir)
			names[ir.Name] = true
		}
	}
	// preprocessors may consume the output of earlier ones
	for _, p := range s.PreProcessors {
		if produced(p.Source) {
			out.PreProcessors = append(out.PreProcessors, p)
			names[p.Output] = true
		}
	}
	for _, h := range s.Highlights {
		if produced(h.Source) {
			out.Highlights = append(out.Highlights, h)
		}
	}
	// an empty selection must not widen into "every source"
	if s.Series != nil {
		out.Series = []string{}
	}
	for _, source := range s.Series {
		if produced(source) {
			out.Series = append(out.Series, source)
		}
	}
	return &out
}
