package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/KaramelBytes/shopstats-cli/internal/dataset"
)

func floatsOf(vals ...float64) []dataset.Float {
	out := make([]dataset.Float, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			out[i] = dataset.Missing
			continue
		}
		out[i] = dataset.Num(v)
	}
	return out
}

func TestLinearFitIdentity(t *testing.T) {
	fit, err := LinearFit(floatsOf(0, 1, 2), floatsOf(0, 1, 2))
	if err != nil {
		t.Fatalf("LinearFit: %v", err)
	}
	if !almostEqual(fit.Slope, 1, 1e-9) || !almostEqual(fit.Intercept, 0, 1e-9) {
		t.Fatalf("fit = %+v", fit)
	}
	if fit.N != 3 {
		t.Fatalf("n = %d", fit.N)
	}
	if fit.String() != "y = 1.000x + 0.000" {
		t.Fatalf("label = %q", fit.String())
	}
}

func TestLinearFitSkipsIncompleteRows(t *testing.T) {
	nan := math.NaN()
	x := floatsOf(0, 1, nan, 2, 3)
	y := floatsOf(1, 3, 100, nan, 7)
	fit, err := LinearFit(x, y)
	if err != nil {
		t.Fatalf("LinearFit: %v", err)
	}
	if !almostEqual(fit.Slope, 2, 1e-9) || !almostEqual(fit.Intercept, 1, 1e-9) || fit.N != 3 {
		t.Fatalf("fit = %+v", fit)
	}
	if !almostEqual(fit.Predict(10), 21, 1e-9) {
		t.Fatalf("predict = %v", fit.Predict(10))
	}
}

func TestLinearFitInsufficientData(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name string
		x, y []dataset.Float
	}{
		{"empty", nil, nil},
		{"one row", floatsOf(1), floatsOf(2)},
		{"one complete pair", floatsOf(1, nan, 3), floatsOf(2, 5, nan)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fit, err := LinearFit(tc.x, tc.y)
			if !errors.Is(err, ErrInsufficientData) {
				t.Fatalf("expected ErrInsufficientData, got %v", err)
			}
			if fit.N > 1 {
				t.Fatalf("n = %d", fit.N)
			}
		})
	}
}

func TestLinearFitZeroVariance(t *testing.T) {
	if _, err := LinearFit(floatsOf(2, 2, 2), floatsOf(1, 2, 3)); !errors.Is(err, ErrZeroVariance) {
		t.Fatalf("expected ErrZeroVariance, got %v", err)
	}
}

func TestLinearFitLengthMismatch(t *testing.T) {
	_, err := LinearFit(floatsOf(1, 2, 3), floatsOf(1, 2))
	if err == nil || errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected length mismatch error, got %v", err)
	}
}
