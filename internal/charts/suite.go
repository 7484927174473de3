package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/KaramelBytes/shopstats-cli/internal/analysis"
	"github.com/KaramelBytes/shopstats-cli/internal/config"
	"github.com/KaramelBytes/shopstats-cli/internal/dataset"
	"github.com/KaramelBytes/shopstats-cli/internal/utils"
)

// SuiteOptions configures the chart suite.
type SuiteOptions struct {
	Columns       config.Columns
	Bins          int
	DensityPoints int
	TopBrands     int
	TopGenders    int
	Chart         Options
}

// SuiteOptionsFromConfig copies the chart settings out of the global config.
func SuiteOptionsFromConfig(c *config.Global, format Format) SuiteOptions {
	return SuiteOptions{
		Columns:       c.Columns,
		Bins:          c.HistogramBins,
		DensityPoints: c.DensityPoints,
		TopBrands:     c.TopBrands,
		TopGenders:    c.TopGenders,
		Chart:         Options{Width: c.ChartWidth, Height: c.ChartHeight, Format: format},
	}
}

func (o SuiteOptions) normalized() SuiteOptions {
	if o.Bins <= 0 {
		o.Bins = 20
	}
	if o.DensityPoints <= 0 {
		o.DensityPoints = analysis.DefaultDensityPoints
	}
	if o.TopBrands <= 0 {
		o.TopBrands = 10
	}
	if o.TopGenders <= 0 {
		o.TopGenders = 3
	}
	o.Chart = o.Chart.normalized()
	return o
}

// Result reports the outcome of one chart.
type Result struct {
	Index   int
	Name    string
	Path    string
	Skipped bool
	Note    string
}

type step struct {
	name   string
	render func(w io.Writer) (note string, err error)
}

// Suite renders the fixed sequence of charts for one table.
type Suite struct {
	table *dataset.Table
	opt   SuiteOptions
	steps []step
}

// NewSuite binds the chart sequence to t.
func NewSuite(t *dataset.Table, opt SuiteOptions) *Suite {
	s := &Suite{table: t, opt: opt.normalized()}
	s.steps = []step{
		{"rating histogram", s.ratingHistogram},
		{"reviews vs rating", s.reviewsScatter},
		{"correlation heatmap", s.correlationHeatmap},
		{"top brands", s.topBrands},
		{"gender share", s.genderPie},
		{"discount density", s.discountDensity},
		{"price vs discount regression", s.regression},
	}
	return s
}

// Len returns the number of charts in the suite.
func (s *Suite) Len() int { return len(s.steps) }

// Names lists the charts in render order.
func (s *Suite) Names() []string {
	out := make([]string, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.name
	}
	return out
}

// FileName is the output file of the i-th chart (0-based).
func (s *Suite) FileName(i int) string {
	return fmt.Sprintf("%02d_%s.%s", i+1, utils.Slug(s.steps[i].name), s.opt.Chart.Format)
}

// Run renders every chart into dir. progress, if non-nil, is called after each
// chart. A regression without enough paired data is skipped; any other error
// stops the run and is returned along with the results so far.
func (s *Suite) Run(dir string, progress func(total int, r Result)) ([]Result, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	results := make([]Result, 0, len(s.steps))
	for i, st := range s.steps {
		res := Result{Index: i + 1, Name: st.name}
		var buf bytes.Buffer
		note, err := st.render(&buf)
		switch {
		case errors.Is(err, analysis.ErrInsufficientData):
			res.Skipped = true
			res.Note = note
		case err != nil:
			return results, fmt.Errorf("%s: %w", st.name, err)
		default:
			res.Path = filepath.Join(dir, s.FileName(i))
			res.Note = note
			if err := utils.SafeWriteFile(res.Path, buf.Bytes()); err != nil {
				return results, fmt.Errorf("%s: %w", st.name, err)
			}
		}
		results = append(results, res)
		if progress != nil {
			progress(len(s.steps), res)
		}
	}
	return results, nil
}

func (s *Suite) numeric(col string) ([]dataset.Float, error) {
	return s.table.Numeric(col)
}

func (s *Suite) ratingHistogram(w io.Writer) (string, error) {
	col := s.opt.Columns.Rating
	vals, err := s.numeric(col)
	if err != nil {
		return "", err
	}
	bins, err := analysis.Histogram(dataset.Values(vals), s.opt.Bins)
	if err != nil {
		return "", fmt.Errorf("%s: %w", col, err)
	}
	l := Labels{Title: "Distribution of product ratings", X: col, Y: "Frequency"}
	return fmt.Sprintf("%d bins", len(bins)), Histogram(w, bins, l, s.opt.Chart)
}

func (s *Suite) reviewsScatter(w io.Writer) (string, error) {
	c := s.opt.Columns
	x, err := s.numeric(c.Reviews)
	if err != nil {
		return "", err
	}
	y, err := s.numeric(c.Rating)
	if err != nil {
		return "", err
	}
	l := Labels{Title: "Number of reviews vs rating", X: c.Reviews, Y: c.Rating}
	xs, _ := analysis.CompletePairs(x, y)
	return fmt.Sprintf("%d points", len(xs)), Scatter(w, x, y, l, s.opt.Chart)
}

func (s *Suite) correlationHeatmap(w io.Writer) (string, error) {
	// columns that only became numeric through Coerce are left out
	m, err := analysis.CorrelationMatrix(s.table.Raw())
	if err != nil {
		return "", err
	}
	l := Labels{Title: "Correlation between numeric columns"}
	return fmt.Sprintf("%d numeric columns", len(m.Columns)), Heatmap(w, m, l, s.opt.Chart)
}

func (s *Suite) topBrands(w io.Writer) (string, error) {
	c := s.opt.Columns
	groups, err := analysis.SumByGroup(s.table, c.Brand, c.QuantitySold)
	if err != nil {
		return "", err
	}
	top := analysis.TopGroups(groups, s.opt.TopBrands)
	l := Labels{
		Title: fmt.Sprintf("Top %d brands by quantity sold", s.opt.TopBrands),
		X:     c.Brand,
		Y:     c.QuantitySold,
	}
	return fmt.Sprintf("%d of %d brands", len(top), len(groups)), Bar(w, top, l, s.opt.Chart)
}

func (s *Suite) genderPie(w io.Writer) (string, error) {
	c := s.opt.Columns
	freq, err := analysis.Frequency(s.table, c.Gender)
	if err != nil {
		return "", err
	}
	buckets := analysis.BucketTopNPlusOther(freq, s.opt.TopGenders)
	l := Labels{Title: "Product gender distribution"}
	return fmt.Sprintf("%d categories", len(freq)), Pie(w, buckets, l, s.opt.Chart)
}

func (s *Suite) discountDensity(w io.Writer) (string, error) {
	col := s.opt.Columns.Discount
	vals, err := s.numeric(col)
	if err != nil {
		return "", err
	}
	xs, ys, err := analysis.Density(dataset.Values(vals), s.opt.DensityPoints)
	if err != nil {
		return "", fmt.Errorf("%s: %w", col, err)
	}
	l := Labels{Title: "Discount density", X: col, Y: "Density"}
	return fmt.Sprintf("%d values", dataset.CountValid(vals)), Density(w, xs, ys, l, s.opt.Chart)
}

func (s *Suite) regression(w io.Writer) (string, error) {
	c := s.opt.Columns
	x, err := s.numeric(c.NormalizedPrice)
	if err != nil {
		return "", err
	}
	y, err := s.numeric(c.NormalizedDiscount)
	if err != nil {
		return "", err
	}
	fit, err := analysis.LinearFit(x, y)
	if errors.Is(err, analysis.ErrInsufficientData) {
		return fmt.Sprintf("not enough paired data to fit a regression (n=%d)", fit.N), err
	}
	if err != nil {
		return "", err
	}
	l := Labels{
		Title: "Regression: normalized price vs normalized discount",
		X:     c.NormalizedPrice,
		Y:     c.NormalizedDiscount,
	}
	return fit.String(), Regression(w, x, y, fit, l, s.opt.Chart)
}
