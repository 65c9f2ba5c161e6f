package analysis

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Direction classifies a fitted slope.
type Direction string

const (
	Upward           Direction = "upward"
	Downward         Direction = "downward"
	Stable           Direction = "stable"
	InsufficientData Direction = "insufficient data"
)

// TrendResult is the least-squares fit of a series against its index.
// Strength is R² scaled to 0..100.
type TrendResult struct {
	Direction Direction `json:"direction" yaml:"direction"`
	Strength  int       `json:"strength" yaml:"strength"`
	Slope     float64   `json:"slope" yaml:"slope"`
	Intercept float64   `json:"intercept" yaml:"intercept"`
	RSquared  float64   `json:"r_squared" yaml:"r_squared"`
}

// SlopeText renders the slope with four decimals.
func (r TrendResult) SlopeText() string {
	return strconv.FormatFloat(r.Slope, 'f', 4, 64)
}

// DetectTrend fits y = intercept + slope*i over the series. Fewer than two
// points yield InsufficientData; a constant series has zero strength.
func DetectTrend(series []float64, opt Options) TrendResult {
	n := len(series)
	if n < 2 {
		return TrendResult{Direction: InsufficientData}
	}
	xs := indexAxis(n)
	intercept, slope := stat.LinearRegression(xs, series, nil, false)

	res := TrendResult{Slope: slope, Intercept: intercept, RSquared: rSquared(xs, series, intercept, slope)}
	res.Strength = int(math.Round(res.RSquared * 100))
	switch {
	case math.Abs(slope) <= opt.TrendStableSlope:
		res.Direction = Stable
	case slope > 0:
		res.Direction = Upward
	default:
		res.Direction = Downward
	}
	return res
}

func indexAxis(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// rSquared is 1 - SSres/SStot, or 0 when the series has no variance.
func rSquared(xs, ys []float64, intercept, slope float64) float64 {
	mean := stat.Mean(ys, nil)
	var ssRes, ssTot float64
	for i, y := range ys {
		d := y - (intercept + slope*xs[i])
		ssRes += d * d
		m := y - mean
		ssTot += m * m
	}
	if ssTot == 0 {
		return 0
	}
	r := 1 - ssRes/ssTot
	if math.IsNaN(r) {
		return 0
	}
	return r
}
