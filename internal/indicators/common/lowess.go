package common

import (
	"math"
	"sort"
	"time"
)

// Lowess re-estimates the middle sample of everything it has accumulated
// with a robust locally weighted linear fit. Unlike the other primitives it
// keeps every sample.
type Lowess struct {
	xs []float64
	ys []float64

	origin    time.Time
	hasOrigin bool
}

func NewLowess() *Lowess {
	return &Lowess{}
}

func (l *Lowess) AddXY(x, y float64) {
	l.xs = append(l.xs, x)
	l.ys = append(l.ys, y)
}

// AddDated adds a sample with x in years since the first dated sample
func (l *Lowess) AddDated(t time.Time, y float64) {
	if !l.hasOrigin {
		l.origin = t
		l.hasOrigin = true
	}
	l.AddXY(YearsBetween(l.origin, t), y)
}

func (l *Lowess) Count() int { return len(l.xs) }

// Middle returns the x of the sample being re-estimated
func (l *Lowess) Middle() (float64, bool) {
	if len(l.xs) == 0 {
		return 0, false
	}
	return l.xs[(len(l.xs)-1)/2], true
}

// Estimate runs two weighted least-squares passes centred on the middle
// sample: tricube distance weights first, then the same weights scaled by
// bisquare robustness weights derived from the median absolute residual.
func (l *Lowess) Estimate() (float64, bool) {
	n := len(l.xs)
	if n == 0 {
		return 0, false
	}
	if n == 1 {
		return l.ys[0], true
	}

	x0, _ := l.Middle()
	maxDist := 0.0
	for _, x := range l.xs {
		maxDist = math.Max(maxDist, math.Abs(x-x0))
	}

	weights := make([]float64, n)
	for i, x := range l.xs {
		weights[i] = tricube(math.Abs(x-x0), maxDist)
	}

	slope, intercept := weightedFit(l.xs, l.ys, weights)

	residuals := make([]float64, n)
	for i := range l.xs {
		residuals[i] = math.Abs(l.ys[i] - (slope*l.xs[i] + intercept))
	}
	scale := 6 * median(residuals)
	if scale > 0 {
		for i, r := range residuals {
			weights[i] *= bisquare(r / scale)
		}
		slope, intercept = weightedFit(l.xs, l.ys, weights)
	}

	return slope*x0 + intercept, true
}

func (l *Lowess) ResetState() {
	*l = Lowess{}
}

// tricube weights distances in [0, maxDist]; the edge points get a small
// non-zero weight so a two-sample window still fits.
func tricube(d, maxDist float64) float64 {
	if maxDist == 0 {
		return 1
	}
	u := d / (maxDist * 1.0001)
	t := 1 - u*u*u
	return t * t * t
}

func bisquare(u float64) float64 {
	if u >= 1 {
		return 0
	}
	t := 1 - u*u
	return t * t
}

// weightedFit returns slope and intercept of the weighted least-squares line.
// A degenerate x spread yields a flat line through the weighted mean.
func weightedFit(xs, ys, ws []float64) (float64, float64) {
	var sw, sx, sy float64
	for i := range xs {
		sw += ws[i]
		sx += ws[i] * xs[i]
		sy += ws[i] * ys[i]
	}
	if sw == 0 {
		return 0, 0
	}
	mx, my := sx/sw, sy/sw

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - mx
		sxx += ws[i] * dx * dx
		sxy += ws[i] * dx * (ys[i] - my)
	}
	if sxx == 0 {
		return 0, my
	}
	slope := sxy / sxx
	return slope, my - slope*mx
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
