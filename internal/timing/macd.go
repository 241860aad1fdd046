package timing

import (
	"github.com/ducminhle1904/market-timing/internal/indicators/oscillators"
	"github.com/ducminhle1904/market-timing/pkg/reporting"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// MACDTiming flips on MACD/signal crossovers
type MACDTiming struct {
	Base
	macd *oscillators.MACD
}

func NewMACDTiming(assetName string, cfg oscillators.MACDConfig, opts ...Option) (*MACDTiming, error) {
	macd, err := oscillators.NewMACD(cfg)
	if err != nil {
		return nil, err
	}
	return &MACDTiming{
		Base: newBase("MACD", assetName, opts),
		macd: macd,
	}, nil
}

func (m *MACDTiming) Record(iq types.InstantQuotes) {
	q, ok := m.quote(iq)
	if !ok {
		return
	}
	if _, ok := m.macd.Calculate(iq.Instant, q.OHLCV); !ok {
		return
	}
	macd, signal, _ := m.macd.GetLastValues()
	m.transition(iq.Instant, m.macd.NextStatus(m.status), "signal crossed macd", macd-signal)
}

// MACD exposes the underlying indicator
func (m *MACDTiming) MACD() *oscillators.MACD { return m.macd }

func (m *MACDTiming) DoRegister(r reporting.Report) { r.Register(m) }

func (m *MACDTiming) ReportTo(r reporting.Report) {
	em := m.emitter(r)
	if m.macd.IsInitialized() {
		macd, signal, histogram := m.macd.GetLastValues()
		em.emit("macd", macd)
		em.emit("signal", signal)
		em.emit("histogram", histogram)
		em.emit("fast", m.macd.GetFastValue())
		em.emit("slow", m.macd.GetSlowValue())
	}
	em.done()
}
