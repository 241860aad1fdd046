package common

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinearRegression_PerfectLine(t *testing.T) {
	r := NewLinearRegression()
	for x := 0.0; x < 10; x++ {
		r.AddXY(x, 3*x+2)
	}

	assert.InDelta(t, 3.0, r.Slope(), 1e-9)
	assert.InDelta(t, 2.0, r.Intercept(), 1e-9)
	assert.InDelta(t, 1.0, r.Correlation(), 1e-9)
	assert.InDelta(t, 1.0, r.RSquared(), 1e-9)
	assert.InDelta(t, 32.0, r.Predict(10), 1e-9)
}

func TestLinearRegression_MatchesBatchFormula(t *testing.T) {
	xs := []float64{1, 2, 4, 5, 7, 8}
	ys := []float64{2.1, 3.9, 8.2, 9.8, 14.5, 15.9}

	r := NewLinearRegression()
	for i := range xs {
		r.AddXY(xs[i], ys[i])
	}

	var sx, sy, sxx, sxy, syy float64
	n := float64(len(xs))
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
		syy += ys[i] * ys[i]
	}
	slope := (n*sxy - sx*sy) / (n*sxx - sx*sx)
	corr := (n*sxy - sx*sy) / math.Sqrt((n*sxx-sx*sx)*(n*syy-sy*sy))

	assert.InDelta(t, slope, r.Slope(), 1e-9)
	assert.InDelta(t, sy/n-slope*sx/n, r.Intercept(), 1e-9)
	assert.InDelta(t, corr, r.Correlation(), 1e-9)
}

func TestLinearRegression_Degenerate(t *testing.T) {
	r := NewLinearRegression()
	assert.Equal(t, 0.0, r.Slope())

	r.AddXY(1, 5)
	r.AddXY(1, 7)
	assert.Equal(t, 0.0, r.Slope())
	assert.Equal(t, 0.0, r.Correlation())
}

func TestLinearRegression_AddDated(t *testing.T) {
	r := NewLinearRegression()
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		day := start.AddDate(0, 0, i*365)
		r.AddDated(day, 100+float64(i)*10)
	}

	assert.InDelta(t, 10*daysPerYear/365, r.Slope(), 1e-9)
}

func TestExponentialRegression(t *testing.T) {
	r := NewExponentialRegression()
	for x := 0.0; x <= 5; x++ {
		r.AddXY(x, 100*math.Exp(0.07*x))
	}

	assert.InDelta(t, 0.07, r.CAGR(), 1e-9)
	assert.InDelta(t, 100.0, r.InitialValue(), 1e-6)
	assert.InDelta(t, 1.0, r.RSquared(), 1e-9)

	r.AddXY(6, -1)
	assert.Equal(t, 6, r.Count())
}

func TestStdDev_Population(t *testing.T) {
	s := NewStdDev()
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.UpdateSingle(v)
	}

	assert.InDelta(t, 2.0, s.GetLastValue(), 1e-9)
	assert.InDelta(t, 5.0, s.Mean(), 1e-9)
}
