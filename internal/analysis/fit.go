package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/shopstats-cli/internal/dataset"
)

var (
	// ErrInsufficientData means fewer than two complete (x, y) pairs remained.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrZeroVariance means every usable value was identical.
	ErrZeroVariance = errors.New("zero variance")
	// ErrNoData means there was nothing to aggregate.
	ErrNoData = errors.New("no data")
)

// Fit is a degree-1 least-squares line y = Slope*x + Intercept.
type Fit struct {
	Slope     float64
	Intercept float64
	// N is the number of complete pairs the fit used (or found, on error).
	N int
}

// Predict evaluates the line at x.
func (f Fit) Predict(x float64) float64 { return f.Slope*x + f.Intercept }

func (f Fit) String() string {
	return fmt.Sprintf("y = %.3fx + %.3f", f.Slope, f.Intercept)
}

// CompletePairs returns the values of rows where both x and y are present.
// Extra cells of the longer input are ignored.
func CompletePairs(x, y []dataset.Float) (xs, ys []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	for i := 0; i < n; i++ {
		if x[i].Valid && y[i].Valid {
			xs = append(xs, x[i].Value)
			ys = append(ys, y[i].Value)
		}
	}
	return xs, ys
}

// LinearFit fits y against x by ordinary least squares over the rows where
// both are present. With fewer than two such rows it returns
// ErrInsufficientData instead of a fit.
func LinearFit(x, y []dataset.Float) (Fit, error) {
	if len(x) != len(y) {
		return Fit{}, fmt.Errorf("linear fit: length mismatch %d != %d", len(x), len(y))
	}
	xs, ys := CompletePairs(x, y)
	if len(xs) < 2 {
		return Fit{N: len(xs)}, fmt.Errorf("linear fit: %w: %d complete pairs", ErrInsufficientData, len(xs))
	}
	if floats.Min(xs) == floats.Max(xs) {
		return Fit{N: len(xs)}, fmt.Errorf("linear fit: %w in x", ErrZeroVariance)
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Fit{Slope: beta, Intercept: alpha, N: len(xs)}, nil
}
