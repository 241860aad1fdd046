package timing

import (
	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/indicators/oscillators"
	"github.com/ducminhle1904/market-timing/pkg/reporting"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// RSIConfig configures an RSITiming
type RSIConfig struct {
	oscillators.RSIConfig
	LowerThreshold float64
	UpperThreshold float64
}

// RSITiming turns BULL when the RSI drops through the lower threshold and
// BEAR when it climbs through the upper one. The first NumberOfPeriods
// values are only used as crossing references.
type RSITiming struct {
	Base
	cfg RSIConfig
	rsi *oscillators.RSI

	countdown int
	previous  float64
	current   float64
	hasValue  bool
}

func NewRSITiming(assetName string, cfg RSIConfig, opts ...Option) (*RSITiming, error) {
	if cfg.LowerThreshold >= cfg.UpperThreshold {
		return nil, errs.NewConfigurationError("RSITiming", "NewRSITiming", "lower threshold must be below upper threshold").
			WithContext("lowerThreshold", cfg.LowerThreshold).
			WithContext("upperThreshold", cfg.UpperThreshold)
	}
	rsi, err := oscillators.NewRSI(cfg.RSIConfig)
	if err != nil {
		return nil, err
	}
	return &RSITiming{
		Base:      newBase("RSI", assetName, opts),
		cfg:       cfg,
		rsi:       rsi,
		countdown: cfg.NumberOfPeriods,
	}, nil
}

func (t *RSITiming) Record(iq types.InstantQuotes) {
	q, ok := t.quote(iq)
	if !ok {
		return
	}
	v, ok := t.rsi.Calculate(iq.Instant, q.OHLCV)
	if !ok {
		return
	}
	t.previous, t.current = t.current, v
	hadValue := t.hasValue
	t.hasValue = true

	if t.countdown > 0 {
		t.countdown--
		return
	}
	if !hadValue {
		return
	}

	switch t.status {
	case types.Bear:
		if t.previous >= t.cfg.LowerThreshold && v < t.cfg.LowerThreshold {
			t.transition(iq.Instant, types.Bull, "rsi crossed below lower threshold", v)
		}
	case types.Bull:
		if t.previous <= t.cfg.UpperThreshold && v > t.cfg.UpperThreshold {
			t.transition(iq.Instant, types.Bear, "rsi crossed above upper threshold", v)
		}
	}
}

// Warm reports whether the cold-start countdown has elapsed
func (t *RSITiming) Warm() bool { return t.countdown == 0 }

func (t *RSITiming) DoRegister(r reporting.Report) { r.Register(t) }

func (t *RSITiming) ReportTo(r reporting.Report) {
	em := t.emitter(r)
	if t.hasValue {
		em.emit("rsi", t.current)
	}
	em.done()
}
