package timing

import (
	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/indicators"
	"github.com/ducminhle1904/market-timing/pkg/reporting"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// MomentumConfig configures a MomentumTiming
type MomentumConfig struct {
	indicators.Config
	LowerThreshold float64
	UpperThreshold float64
}

// MomentumTiming turns BULL when momentum crosses above UpperThreshold and
// BEAR when it crosses below LowerThreshold. The first momentum value only
// sets the reference.
type MomentumTiming struct {
	Base
	cfg      MomentumConfig
	momentum *indicators.Momentum
	previous float64
	primed   bool
}

func NewMomentumTiming(assetName string, cfg MomentumConfig, opts ...Option) (*MomentumTiming, error) {
	if cfg.LowerThreshold > cfg.UpperThreshold {
		return nil, errs.NewConfigurationError("MomentumTiming", "NewMomentumTiming", "lower threshold must not exceed upper threshold").
			WithContext("lowerThreshold", cfg.LowerThreshold).
			WithContext("upperThreshold", cfg.UpperThreshold)
	}
	m, err := indicators.NewMomentum(cfg.Config)
	if err != nil {
		return nil, err
	}
	return &MomentumTiming{
		Base:     newBase("Momentum", assetName, opts),
		cfg:      cfg,
		momentum: m,
	}, nil
}

func (t *MomentumTiming) Record(iq types.InstantQuotes) {
	q, ok := t.quote(iq)
	if !ok {
		return
	}
	v, ok := t.momentum.Calculate(iq.Instant, q.OHLCV)
	if !ok {
		return
	}
	prev, primed := t.previous, t.primed
	t.previous, t.primed = v, true
	if !primed {
		return
	}

	switch t.status {
	case types.Bear:
		if prev <= t.cfg.UpperThreshold && v > t.cfg.UpperThreshold {
			t.transition(iq.Instant, types.Bull, "momentum crossed above upper threshold", v)
		}
	case types.Bull:
		if prev >= t.cfg.LowerThreshold && v < t.cfg.LowerThreshold {
			t.transition(iq.Instant, types.Bear, "momentum crossed below lower threshold", v)
		}
	}
}

func (t *MomentumTiming) DoRegister(r reporting.Report) { r.Register(t) }

func (t *MomentumTiming) ReportTo(r reporting.Report) {
	em := t.emitter(r)
	if v, ok := t.momentum.GetLastValue(); ok {
		em.emit("momentum", v)
	}
	em.done()
}
