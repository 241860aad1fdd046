package types

import "time"

type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// Quote is one asset's candlestick observed at an instant.
type Quote struct {
	Asset string
	OHLCV
	Dividend      float64
	AdjustedClose float64
}

// InstantQuotes groups every quote observed at the same instant.
// Callers must supply instants in non-decreasing order.
type InstantQuotes struct {
	Instant time.Time
	Quotes  map[string]Quote
}

// NewInstantQuotes indexes quotes by asset name
func NewInstantQuotes(instant time.Time, quotes ...Quote) InstantQuotes {
	iq := InstantQuotes{
		Instant: instant,
		Quotes:  make(map[string]Quote, len(quotes)),
	}
	for _, q := range quotes {
		iq.Quotes[q.Asset] = q
	}
	return iq
}

// Quote returns the quote recorded for asset, if any
func (iq InstantQuotes) Quote(asset string) (Quote, bool) {
	q, ok := iq.Quotes[asset]
	return q, ok
}

// BearBull is the two-valued market timing status
type BearBull int

const (
	Bear BearBull = iota
	Bull
)

func (b BearBull) String() string {
	switch b {
	case Bear:
		return "BEAR"
	case Bull:
		return "BULL"
	default:
		return "UNKNOWN"
	}
}

// Sign maps BULL to 1 and BEAR to -1, for charting
func (b BearBull) Sign() float64 {
	if b == Bull {
		return 1
	}
	return -1
}
