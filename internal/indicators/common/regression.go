package common

import (
	"math"
	"time"
)

// daysPerYear converts dated samples to fractional years
const daysPerYear = 365.25

// YearsBetween returns the signed number of years from start to t
func YearsBetween(start, t time.Time) float64 {
	return t.Sub(start).Hours() / 24 / daysPerYear
}

// LinearRegression fits y = a*x + b online. Means, variances and the
// covariance are updated per sample so no history is kept.
type LinearRegression struct {
	count int
	meanX float64
	meanY float64
	m2X   float64
	m2Y   float64
	cXY   float64

	origin    time.Time
	hasOrigin bool
}

func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// AddXY adds one sample
func (r *LinearRegression) AddXY(x, y float64) {
	r.count++
	n := float64(r.count)

	dx := x - r.meanX
	r.meanX += dx / n
	dy := y - r.meanY
	r.meanY += dy / n

	r.m2X += dx * (x - r.meanX)
	r.m2Y += dy * (y - r.meanY)
	r.cXY += dx * (y - r.meanY)
}

// AddDated adds a sample whose x is t expressed in years since the first
// dated sample
func (r *LinearRegression) AddDated(t time.Time, y float64) {
	if !r.hasOrigin {
		r.origin = t
		r.hasOrigin = true
	}
	r.AddXY(YearsBetween(r.origin, t), y)
}

func (r *LinearRegression) Count() int { return r.count }

// Slope is covXY/varX, zero while x has no spread
func (r *LinearRegression) Slope() float64 {
	if r.m2X == 0 {
		return 0
	}
	return r.cXY / r.m2X
}

func (r *LinearRegression) Intercept() float64 {
	return r.meanY - r.Slope()*r.meanX
}

// Correlation is covXY/sqrt(varX*varY), zero when either series is flat
func (r *LinearRegression) Correlation() float64 {
	d := r.m2X * r.m2Y
	if d <= 0 {
		return 0
	}
	return r.cXY / math.Sqrt(d)
}

func (r *LinearRegression) RSquared() float64 {
	c := r.Correlation()
	return c * c
}

// Predict evaluates the fitted line at x
func (r *LinearRegression) Predict(x float64) float64 {
	return r.Slope()*x + r.Intercept()
}

func (r *LinearRegression) ResetState() {
	*r = LinearRegression{}
}

// ExponentialRegression fits y = P*e^(c*x) by regressing ln(y) on x
type ExponentialRegression struct {
	linear LinearRegression
}

func NewExponentialRegression() *ExponentialRegression {
	return &ExponentialRegression{}
}

// AddXY ignores non-positive y, which has no logarithm
func (r *ExponentialRegression) AddXY(x, y float64) {
	if y <= 0 {
		return
	}
	r.linear.AddXY(x, math.Log(y))
}

func (r *ExponentialRegression) AddDated(t time.Time, y float64) {
	if y <= 0 {
		return
	}
	r.linear.AddDated(t, math.Log(y))
}

func (r *ExponentialRegression) Count() int { return r.linear.Count() }

// CAGR is the continuous growth rate per unit of x
func (r *ExponentialRegression) CAGR() float64 { return r.linear.Slope() }

// InitialValue is P = e^intercept
func (r *ExponentialRegression) InitialValue() float64 {
	return math.Exp(r.linear.Intercept())
}

func (r *ExponentialRegression) RSquared() float64 { return r.linear.RSquared() }

func (r *ExponentialRegression) ResetState() { r.linear.ResetState() }

// StdDev is the online population standard deviation
type StdDev struct {
	count int
	mean  float64
	m2    float64
}

func NewStdDev() *StdDev {
	return &StdDev{}
}

// UpdateSingle adds value and returns the current standard deviation
func (s *StdDev) UpdateSingle(value float64) float64 {
	s.count++
	delta := value - s.mean
	s.mean += delta / float64(s.count)
	s.m2 += delta * (value - s.mean)
	return s.GetLastValue()
}

func (s *StdDev) GetLastValue() float64 {
	if s.count == 0 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(s.count))
}

func (s *StdDev) Mean() float64 { return s.mean }
func (s *StdDev) Count() int    { return s.count }

func (s *StdDev) ResetState() {
	*s = StdDev{}
}
