package timing

import (
	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/indicators"
	"github.com/ducminhle1904/market-timing/pkg/reporting"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// EMAConfig configures an EMATiming. The status flips to BEAR when the
// normalised difference falls below Offset-Threshold and to BULL when it
// rises above Offset+Threshold.
type EMAConfig struct {
	Fast      indicators.Config
	Slow      indicators.Config
	Threshold float64
	Offset    float64
}

// EMATiming compares a fast and a slow EMA
type EMATiming struct {
	Base
	cfg  EMAConfig
	fast *indicators.EMAIndicator
	slow *indicators.EMAIndicator

	difference    float64
	hasDifference bool
}

func NewEMATiming(assetName string, cfg EMAConfig, opts ...Option) (*EMATiming, error) {
	if cfg.Threshold < 0 {
		return nil, errs.NewConfigurationError("EMATiming", "NewEMATiming", "threshold must not be negative").
			WithContext("threshold", cfg.Threshold)
	}
	fast, err := indicators.NewEMA(cfg.Fast)
	if err != nil {
		return nil, errs.WrapError(err, errs.ErrorCategoryConfiguration, "EMATiming", "NewEMATiming").WithContext("leg", "fast")
	}
	slow, err := indicators.NewEMA(cfg.Slow)
	if err != nil {
		return nil, errs.WrapError(err, errs.ErrorCategoryConfiguration, "EMATiming", "NewEMATiming").WithContext("leg", "slow")
	}
	return &EMATiming{
		Base: newBase("EMA", assetName, opts),
		cfg:  cfg,
		fast: fast,
		slow: slow,
	}, nil
}

func (e *EMATiming) Record(iq types.InstantQuotes) {
	q, ok := e.quote(iq)
	if !ok {
		return
	}
	_, fastOK := e.fast.Calculate(iq.Instant, q.OHLCV)
	_, slowOK := e.slow.Calculate(iq.Instant, q.OHLCV)
	if !fastOK && !slowOK {
		return
	}

	fast, ok1 := e.fast.GetLastValue()
	slow, ok2 := e.slow.GetLastValue()
	if !ok1 || !ok2 || fast+slow == 0 {
		return
	}
	e.difference = (fast - slow) / (fast + slow)
	e.hasDifference = true

	switch e.status {
	case types.Bull:
		if e.difference < e.cfg.Offset-e.cfg.Threshold {
			e.transition(iq.Instant, types.Bear, "difference below dead band", e.difference)
		}
	case types.Bear:
		if e.difference > e.cfg.Offset+e.cfg.Threshold {
			e.transition(iq.Instant, types.Bull, "difference above dead band", e.difference)
		}
	}
}

// Difference returns the last normalised difference
func (e *EMATiming) Difference() (float64, bool) {
	return e.difference, e.hasDifference
}

func (e *EMATiming) DoRegister(r reporting.Report) { r.Register(e) }

func (e *EMATiming) ReportTo(r reporting.Report) {
	em := e.emitter(r)
	if v, ok := e.fast.GetLastValue(); ok {
		em.emit("fast", v)
	}
	if v, ok := e.slow.GetLastValue(); ok {
		em.emit("slow", v)
	}
	if e.hasDifference {
		em.emit("difference", e.difference)
	}
	em.done()
}
