package indicators

import (
	"time"

	"github.com/ducminhle1904/market-timing/internal/indicators/common"
)

// SMAIndicator emits the simple moving average of the last NumberOfPeriods
// period values once that many have been seen
type SMAIndicator struct {
	*SourceIndicator
	sma *common.SMA
}

func NewSMA(cfg Config) (*SMAIndicator, error) {
	s := &SMAIndicator{sma: common.NewSMA(cfg.NumberOfPeriods)}
	si, err := NewSourceIndicator("SMA", cfg, s)
	if err != nil {
		return nil, err
	}
	s.SourceIndicator = si
	return s, nil
}

// Compute implements Computer
func (s *SMAIndicator) Compute(_ time.Time, value float64) (float64, bool) {
	v := s.sma.UpdateSingle(value)
	return v, s.sma.IsFull()
}
