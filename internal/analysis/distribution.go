package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultDensityPoints is the evaluation grid size used when none is given.
const DefaultDensityPoints = 1000

// Bin is one equal-width histogram interval [Lo, Hi); the last bin also
// holds values equal to its Hi.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Histogram splits values into equal-width bins spanning their range. A
// constant sample is centred in a unit-wide range.
func Histogram(values []float64, bins int) ([]Bin, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("histogram: %w", ErrNoData)
	}
	if bins < 1 {
		return nil, fmt.Errorf("histogram: bins must be positive, got %d", bins)
	}
	xs := append([]float64(nil), values...)
	sort.Float64s(xs)
	lo, hi := xs[0], xs[len(xs)-1]
	if math.IsInf(hi-lo, 0) || math.IsNaN(hi-lo) {
		return nil, fmt.Errorf("histogram: range [%g, %g] is not finite", lo, hi)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, xs, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: edges[i], Hi: edges[i+1], Count: int(counts[i])}
	}
	return out, nil
}

// Density estimates the probability density of values with a Gaussian kernel
// and Scott's rule bandwidth. The curve is evaluated at points evenly spaced
// positions running half the data range beyond each end.
func Density(values []float64, points int) (xs, ys []float64, err error) {
	if len(values) < 2 {
		return nil, nil, fmt.Errorf("density: %w: need at least 2 values, got %d", ErrNoData, len(values))
	}
	if points < 2 {
		points = DefaultDensityPoints
	}
	_, std := stat.MeanStdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return nil, nil, fmt.Errorf("density: %w", ErrZeroVariance)
	}
	n := float64(len(values))
	bw := std * math.Pow(n, -0.2)
	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	if math.IsInf(span, 0) || math.IsInf(std, 0) {
		return nil, nil, fmt.Errorf("density: range [%g, %g] is not finite", lo, hi)
	}
	xs = floats.Span(make([]float64, points), lo-0.5*span, hi+0.5*span)
	ys = make([]float64, points)
	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	for i, x := range xs {
		var sum float64
		for _, v := range values {
			sum += kernel.Prob(x - v)
		}
		ys[i] = sum / n
	}
	return xs, ys, nil
}
