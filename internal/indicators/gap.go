package indicators

import (
	"math"
	"time"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
)

// GapConfig configures a Gap indicator
type GapConfig struct {
	Config
	// MaximumGapWidth is how many prior points a gap may span
	MaximumGapWidth int
}

// Gap measures the largest relative move |value-prior|/prior between the
// current value and any of the last MaximumGapWidth values, and emits the
// largest such gap over the last NumberOfPeriods values.
type Gap struct {
	*SourceIndicator
	highs *windowMax // prior values
	lows  *windowMax // negated prior values
	gaps  *windowMax
}

// NewGap fails when the gap width exceeds the number of periods
func NewGap(cfg GapConfig) (*Gap, error) {
	if cfg.MaximumGapWidth < 1 {
		return nil, errs.NewConfigurationError("Gap", "NewGap", "maximum gap width must be positive").
			WithContext("maximumGapWidth", cfg.MaximumGapWidth)
	}
	if cfg.MaximumGapWidth > cfg.NumberOfPeriods {
		return nil, errs.NewConfigurationError("Gap", "NewGap", "maximum gap width exceeds number of periods").
			WithContext("maximumGapWidth", cfg.MaximumGapWidth).
			WithContext("numberOfPeriods", cfg.NumberOfPeriods)
	}

	g := &Gap{
		highs: newWindowMax(cfg.MaximumGapWidth),
		lows:  newWindowMax(cfg.MaximumGapWidth),
		gaps:  newWindowMax(cfg.NumberOfPeriods),
	}
	si, err := NewSourceIndicator("Gap", cfg.Config, g)
	if err != nil {
		return nil, err
	}
	g.SourceIndicator = si
	return g, nil
}

// Compute implements Computer
func (g *Gap) Compute(_ time.Time, value float64) (float64, bool) {
	gap := 0.0
	if hi, ok := g.highs.max(); ok {
		negLo, _ := g.lows.max()
		gap = math.Max(relativeGap(value, hi), relativeGap(value, -negLo))
	}

	g.highs.push(value)
	g.lows.push(-value)
	g.gaps.push(gap)

	widest, _ := g.gaps.max()
	return widest, true
}

func relativeGap(value, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return math.Abs(value-reference) / math.Abs(reference)
}
