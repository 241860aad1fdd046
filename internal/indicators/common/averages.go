// Package common holds the online numeric primitives the indicators are
// built from. Every type consumes one sample at a time and never revisits
// history it does not explicitly keep.
package common

// CMA is the cumulative moving average of every sample seen
type CMA struct {
	count int
	mean  float64
}

func NewCMA() *CMA {
	return &CMA{}
}

// UpdateSingle adds value and returns the running mean
func (c *CMA) UpdateSingle(value float64) float64 {
	c.count++
	c.mean += (value - c.mean) / float64(c.count)
	return c.mean
}

func (c *CMA) GetLastValue() float64 { return c.mean }
func (c *CMA) Count() int            { return c.count }

func (c *CMA) ResetState() {
	c.count = 0
	c.mean = 0
}

// SMA is a simple moving average over a fixed FIFO window
type SMA struct {
	period    int
	window    []float64
	lastValue float64
}

func NewSMA(period int) *SMA {
	if period < 1 {
		period = 1
	}
	return &SMA{
		period: period,
		window: make([]float64, 0, period),
	}
}

// UpdateSingle pushes value into the window and returns the mean of the
// samples it currently holds
func (s *SMA) UpdateSingle(value float64) float64 {
	if len(s.window) == s.period {
		copy(s.window, s.window[1:])
		s.window = s.window[:s.period-1]
	}
	s.window = append(s.window, value)

	sum := 0.0
	for _, v := range s.window {
		sum += v
	}
	s.lastValue = sum / float64(len(s.window))
	return s.lastValue
}

func (s *SMA) GetLastValue() float64 { return s.lastValue }

// IsFull reports whether the window holds period samples
func (s *SMA) IsFull() bool { return len(s.window) == s.period }

func (s *SMA) ResetState() {
	s.window = s.window[:0]
	s.lastValue = 0
}

// smoothed is the recurrence shared by EMA and SMMA. Until period samples
// arrive the output is the running mean; afterwards v*k + prev*(1-k).
type smoothed struct {
	period    int
	k         float64
	count     int
	lastValue float64
}

func (s *smoothed) update(value float64) float64 {
	s.count++
	if s.count < s.period {
		s.lastValue += (value - s.lastValue) / float64(s.count)
	} else {
		s.lastValue = value*s.k + s.lastValue*(1-s.k)
	}
	return s.lastValue
}

// forceLastValue seeds the recurrence as if period samples had been seen
func (s *smoothed) forceLastValue(value float64) {
	s.lastValue = value
	if s.count < s.period {
		s.count = s.period
	}
}

func (s *smoothed) reset() {
	s.count = 0
	s.lastValue = 0
}

// EMA is the exponential moving average with k = 2/(N+1)
type EMA struct {
	smoothed
}

func NewEMA(period int) *EMA {
	if period < 1 {
		period = 1
	}
	return &EMA{smoothed{period: period, k: 2.0 / float64(period+1)}}
}

// UpdateSingle adds value and returns the current average
func (e *EMA) UpdateSingle(value float64) float64 { return e.update(value) }

// ForceLastValue seeds the recurrence, used when resuming mid-series
func (e *EMA) ForceLastValue(value float64) { e.forceLastValue(value) }

func (e *EMA) GetLastValue() float64 { return e.lastValue }
func (e *EMA) GetPeriod() int        { return e.period }

// IsInitialized reports whether the recurrence has taken over from the mean
func (e *EMA) IsInitialized() bool { return e.count >= e.period }

func (e *EMA) ResetState() { e.reset() }

// SMMA is Wilder's smoothed moving average, k = 1/N
type SMMA struct {
	smoothed
}

func NewSMMA(period int) *SMMA {
	if period < 1 {
		period = 1
	}
	return &SMMA{smoothed{period: period, k: 1.0 / float64(period)}}
}

func (s *SMMA) UpdateSingle(value float64) float64 { return s.update(value) }
func (s *SMMA) ForceLastValue(value float64)       { s.forceLastValue(value) }
func (s *SMMA) GetLastValue() float64              { return s.lastValue }
func (s *SMMA) IsInitialized() bool                { return s.count >= s.period }
func (s *SMMA) ResetState()                        { s.reset() }

// Average is satisfied by every moving average in this package
type Average interface {
	UpdateSingle(value float64) float64
	GetLastValue() float64
	ResetState()
}
