package services

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// median returns the middle value of xs (mean of the two middle values for
// an even count). ok is false for an empty slice.
func median(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

func mean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	return lo.Sum(xs) / float64(len(xs)), true
}

// olsFit is a simple linear regression y = intercept + slope*x.
type olsFit struct {
	slope     float64
	intercept float64
	rSquared  float64
}

// fitOLS fits y on x by ordinary least squares. It needs at least two
// points and some spread in x.
func fitOLS(xs, ys []float64) (olsFit, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return olsFit{}, false
	}
	xbar, _ := mean(xs)
	ybar, _ := mean(ys)

	var sxx, sxy, syy float64
	for i := range xs {
		dx, dy := xs[i]-xbar, ys[i]-ybar
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return olsFit{}, false
	}

	fit := olsFit{slope: sxy / sxx}
	fit.intercept = ybar - fit.slope*xbar

	// constant y is fitted exactly by the flat line
	fit.rSquared = 1
	if syy > 0 {
		var ssRes float64
		for i := range xs {
			r := ys[i] - (fit.intercept + fit.slope*xs[i])
			ssRes += r * r
		}
		fit.rSquared = 1 - ssRes/syy
	}
	if math.IsNaN(fit.rSquared) {
		fit.rSquared = 0
	}
	return fit, true
}
