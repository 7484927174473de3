package charts

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/shopstats-cli/internal/analysis"
	"github.com/KaramelBytes/shopstats-cli/internal/dataset"
)

// Format is the image encoding of a rendered chart.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case PNG, "":
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q (use png or svg)", s)
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Options controls the canvas of every renderer.
type Options struct {
	Width  int
	Height int
	Format Format
}

// DefaultOptions returns a 1000x600 PNG canvas.
func DefaultOptions() Options {
	return Options{Width: 1000, Height: 600, Format: PNG}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Format == "" {
		o.Format = d.Format
	}
	return o
}

// Labels are the title and axis names drawn on a chart.
type Labels struct {
	Title string
	X     string
	Y     string
}

var (
	barColor  = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	dotColor  = drawing.Color{R: 31, G: 119, B: 180, A: 160}
	lineColor = drawing.Color{R: 214, G: 39, B: 40, A: 255}
)

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

func oneDecimal(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.1f", f)
	}
	return ""
}

func integer(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}

// paddedRange spans every value with a 5% margin. A single value gets a unit
// window so the axis never collapses.
func paddedRange(vals ...[]float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range vals {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	span := hi - lo
	pad := span * 0.05
	if span == 0 {
		pad = math.Max(math.Abs(lo)*0.1, 0.5)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// countRange starts at zero and leaves headroom above the tallest value.
func countRange(max float64) *chart.ContinuousRange {
	if max <= 0 {
		max = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: max * 1.1}
}

func renderChart(w io.Writer, ch chart.Chart, opt Options) error {
	ch.Width, ch.Height = opt.Width, opt.Height
	ch.Background = chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}}
	if err := ch.Render(opt.Format.provider(), w); err != nil {
		return fmt.Errorf("render %q: %w", ch.Title, err)
	}
	return nil
}

// Histogram draws the bins as a filled step outline on a continuous x axis.
func Histogram(w io.Writer, bins []analysis.Bin, l Labels, opt Options) error {
	if len(bins) == 0 {
		return fmt.Errorf("histogram: %w", analysis.ErrNoData)
	}
	opt = opt.normalized()
	xs := make([]float64, 0, 2*len(bins)+2)
	ys := make([]float64, 0, 2*len(bins)+2)
	xs, ys = append(xs, bins[0].Lo), append(ys, 0)
	var top float64
	for _, b := range bins {
		c := float64(b.Count)
		xs = append(xs, b.Lo, b.Hi)
		ys = append(ys, c, c)
		top = math.Max(top, c)
	}
	xs, ys = append(xs, bins[len(bins)-1].Hi), append(ys, 0)

	ch := chart.Chart{
		Title: l.Title,
		XAxis: chart.XAxis{Name: l.X, ValueFormatter: oneDecimal, Range: paddedRange(xs)},
		YAxis: chart.YAxis{Name: l.Y, ValueFormatter: integer, Range: countRange(top)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    l.X,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: barColor,
					StrokeWidth: 1,
					FillColor:   barColor.WithAlpha(140),
				},
			},
		},
	}
	return renderChart(w, ch, opt)
}

// Scatter plots every row where both x and y are present.
func Scatter(w io.Writer, x, y []dataset.Float, l Labels, opt Options) error {
	xs, ys := analysis.CompletePairs(x, y)
	if len(xs) == 0 {
		return fmt.Errorf("scatter: %w", analysis.ErrNoData)
	}
	opt = opt.normalized()
	ch := chart.Chart{
		Title: l.Title,
		XAxis: chart.XAxis{Name: l.X, ValueFormatter: integer, Range: paddedRange(xs)},
		YAxis: chart.YAxis{Name: l.Y, ValueFormatter: oneDecimal, Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: l.Y, XValues: xs, YValues: ys, Style: pointStyle(dotColor)},
		},
	}
	return renderChart(w, ch, opt)
}

// Bar draws one bar per group in the given order.
func Bar(w io.Writer, groups []analysis.GroupSum, l Labels, opt Options) error {
	if len(groups) == 0 {
		return fmt.Errorf("bar chart: %w", analysis.ErrNoData)
	}
	opt = opt.normalized()
	bars := make([]chart.Value, len(groups))
	lo, hi := 0.0, 0.0
	for i, g := range groups {
		bars[i] = chart.Value{
			Label: g.Key,
			Value: g.Sum,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		lo = math.Min(lo, g.Sum)
		hi = math.Max(hi, g.Sum)
	}
	slot := (opt.Width - 140) / len(groups)
	if slot < 2 {
		slot = 2
	}
	width := slot * 7 / 10
	if width < 1 {
		width = 1
	}
	rng := countRange(hi)
	rng.Min = lo
	bc := chart.BarChart{
		Title:      l.Title,
		Width:      opt.Width,
		Height:     opt.Height,
		BarWidth:   width,
		BarSpacing: slot - width,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		YAxis:      chart.YAxis{Name: l.Y, ValueFormatter: integer, Range: rng},
		Bars:       bars,
	}
	if err := bc.Render(opt.Format.provider(), w); err != nil {
		return fmt.Errorf("render %q: %w", l.Title, err)
	}
	return nil
}

// Pie draws one slice per category, labelled with its share to one decimal.
// Empty categories are left out.
func Pie(w io.Writer, counts []analysis.CategoryCount, l Labels, opt Options) error {
	opt = opt.normalized()
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return fmt.Errorf("pie chart: %w", analysis.ErrNoData)
	}
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: PieLabel(c, total),
			Value: float64(c.Count),
		})
	}
	side := opt.Width
	if opt.Height < side {
		side = opt.Height
	}
	pc := chart.PieChart{
		Title:  l.Title,
		Width:  side,
		Height: side,
		Values: values,
	}
	if err := pc.Render(opt.Format.provider(), w); err != nil {
		return fmt.Errorf("render %q: %w", l.Title, err)
	}
	return nil
}

// PieLabel renders "Female (62.5%)".
func PieLabel(c analysis.CategoryCount, total int) string {
	return fmt.Sprintf("%s (%.1f%%)", c.Value, 100*float64(c.Count)/float64(total))
}

// Density draws an estimated density curve.
func Density(w io.Writer, xs, ys []float64, l Labels, opt Options) error {
	if len(xs) == 0 || len(xs) != len(ys) {
		return fmt.Errorf("density: %w", analysis.ErrNoData)
	}
	opt = opt.normalized()
	top := 0.0
	for _, y := range ys {
		top = math.Max(top, y)
	}
	ch := chart.Chart{
		Title: l.Title,
		XAxis: chart.XAxis{Name: l.X, ValueFormatter: oneDecimal, Range: paddedRange(xs)},
		YAxis: chart.YAxis{Name: l.Y, ValueFormatter: oneDecimal, Range: countRange(top)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    l.Y,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: barColor, StrokeWidth: 2},
			},
		},
	}
	return renderChart(w, ch, opt)
}

// RegressionPoints is the number of x positions the fit line is evaluated at.
const RegressionPoints = 100

// Regression overlays the fit line on the complete (x, y) pairs.
func Regression(w io.Writer, x, y []dataset.Float, fit analysis.Fit, l Labels, opt Options) error {
	xs, ys := analysis.CompletePairs(x, y)
	if len(xs) < 2 {
		return fmt.Errorf("regression: %w", analysis.ErrInsufficientData)
	}
	opt = opt.normalized()
	lineX, lineY := FitLine(xs, fit, RegressionPoints)
	ch := chart.Chart{
		Title: l.Title,
		XAxis: chart.XAxis{Name: l.X, ValueFormatter: oneDecimal, Range: paddedRange(xs)},
		YAxis: chart.YAxis{Name: l.Y, ValueFormatter: oneDecimal, Range: paddedRange(ys, lineY)},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Data", XValues: xs, YValues: ys, Style: pointStyle(dotColor)},
			chart.ContinuousSeries{
				Name:    "Regression line: " + fit.String(),
				XValues: lineX,
				YValues: lineY,
				Style:   chart.Style{StrokeColor: lineColor, StrokeWidth: 2},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return renderChart(w, ch, opt)
}

// FitLine evaluates fit at n evenly spaced points between the smallest and
// largest x.
func FitLine(xs []float64, fit analysis.Fit, n int) (lx, ly []float64) {
	if len(xs) == 0 || n < 2 {
		return nil, nil
	}
	lo, hi := xs[0], xs[0]
	for _, v := range xs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lx = make([]float64, n)
	ly = make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range lx {
		lx[i] = lo + float64(i)*step
		ly[i] = fit.Predict(lx[i])
	}
	lx[n-1] = hi
	ly[n-1] = fit.Predict(hi)
	return lx, ly
}
