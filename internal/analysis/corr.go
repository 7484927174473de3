package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/shopstats-cli/internal/dataset"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]; NaN where undefined
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// CorrelationMatrix computes Pearson r for every pair of numeric columns of t.
// Missing values are excluded pairwise. Pairs with fewer than two complete
// observations or with a constant side are NaN; the diagonal is 1 unless the
// column itself is degenerate.
func CorrelationMatrix(t *dataset.Table) (*CorrMatrix, error) {
	cols := t.NumericColumns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("correlation matrix: %w: no numeric columns", ErrNoData)
	}
	data := make([][]dataset.Float, len(cols))
	for i, c := range cols {
		v, err := t.Numeric(c)
		if err != nil {
			return nil, fmt.Errorf("correlation matrix: %w", err)
		}
		data[i] = v
	}
	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			r := pearson(data[a], data[b])
			if a == b && !math.IsNaN(r) {
				r = 1
			}
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return &CorrMatrix{Columns: cols, Values: mat}, nil
}

func pearson(x, y []dataset.Float) float64 {
	xs, ys := CompletePairs(x, y)
	if len(xs) < 2 {
		return math.NaN()
	}
	if floats.Min(xs) == floats.Max(xs) || floats.Min(ys) == floats.Max(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// At returns r for the named pair, or NaN and false when either is absent.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return math.NaN(), false
	}
	return m.Values[ia][ib], true
}

// TopPairs lists the off-diagonal pairs ordered by |r|, strongest first,
// skipping undefined ones. n <= 0 returns them all.
func (m *CorrMatrix) TopPairs(n int) []PairCorr {
	var pairs []PairCorr
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
