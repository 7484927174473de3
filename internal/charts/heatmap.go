package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/shopstats-cli/internal/analysis"
)

var (
	coolLow  = drawing.Color{R: 59, G: 76, B: 192, A: 255}
	coolMid  = drawing.Color{R: 221, G: 221, B: 221, A: 255}
	coolHigh = drawing.Color{R: 180, G: 4, B: 38, A: 255}
	nanColor = drawing.Color{R: 160, G: 160, B: 160, A: 255}
)

// Coolwarm maps r in [-1, 1] onto a blue-grey-red diverging scale. NaN is grey.
func Coolwarm(r float64) drawing.Color {
	if math.IsNaN(r) {
		return nanColor
	}
	r = math.Max(-1, math.Min(1, r))
	if r < 0 {
		return lerp(coolMid, coolLow, -r)
	}
	return lerp(coolMid, coolHigh, r)
}

func lerp(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func fillRect(r chart.Renderer, b chart.Box, c drawing.Color) {
	r.SetFillColor(c)
	r.MoveTo(b.Left, b.Top)
	r.LineTo(b.Right, b.Top)
	r.LineTo(b.Right, b.Bottom)
	r.LineTo(b.Left, b.Bottom)
	r.Close()
	r.Fill()
}

// Heatmap draws the correlation matrix as annotated cells with a colour bar.
func Heatmap(w io.Writer, m *analysis.CorrMatrix, l Labels, opt Options) error {
	if m == nil || len(m.Columns) == 0 {
		return fmt.Errorf("heatmap: %w", analysis.ErrNoData)
	}
	opt = opt.normalized()
	r, err := opt.Format.provider()(opt.Width, opt.Height)
	if err != nil {
		return fmt.Errorf("heatmap renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("heatmap font: %w", err)
	}
	r.SetFont(font)

	fillRect(r, chart.Box{Top: 0, Left: 0, Right: opt.Width, Bottom: opt.Height}, drawing.ColorWhite)

	r.SetFontColor(drawing.ColorBlack)
	r.SetFontSize(14)
	tb := r.MeasureText(l.Title)
	r.Text(l.Title, (opt.Width-tb.Width())/2, 30)

	r.SetFontSize(10)
	label := 0
	for _, c := range m.Columns {
		if tw := r.MeasureText(c).Width(); tw > label {
			label = tw
		}
	}
	n := len(m.Columns)
	left := 20 + label + 10
	top := 50
	right := 90
	bottom := label*3/4 + 30
	cell := (opt.Width - left - right) / n
	if h := (opt.Height - top - bottom) / n; h < cell {
		cell = h
	}
	if cell < 1 {
		cell = 1
	}
	grid := cell * n

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.Values[i][j]
			box := chart.Box{
				Left:   left + j*cell,
				Top:    top + i*cell,
				Right:  left + (j+1)*cell,
				Bottom: top + (i+1)*cell,
			}
			fillRect(r, box, Coolwarm(v))
			if math.IsNaN(v) || cell < 28 {
				continue
			}
			txt := fmt.Sprintf("%.2f", v)
			if math.Abs(v) > 0.6 {
				r.SetFontColor(drawing.ColorWhite)
			} else {
				r.SetFontColor(drawing.ColorBlack)
			}
			tb := r.MeasureText(txt)
			r.Text(txt, box.Left+(cell-tb.Width())/2, box.Top+(cell+tb.Height())/2)
		}
	}

	r.SetFontColor(drawing.ColorBlack)
	for i, c := range m.Columns {
		tb := r.MeasureText(c)
		r.Text(c, left-8-tb.Width(), top+i*cell+(cell+tb.Height())/2)
	}
	r.SetTextRotation(math.Pi / 4)
	for j, c := range m.Columns {
		r.Text(c, left+j*cell+cell/2, top+grid+12)
	}
	r.ClearTextRotation()

	// colour bar, +1 at the top
	barLeft := left + grid + 20
	const steps = 64
	for k := 0; k < steps; k++ {
		y0 := top + k*grid/steps
		y1 := top + (k+1)*grid/steps
		v := 1 - 2*(float64(k)+0.5)/steps
		fillRect(r, chart.Box{Left: barLeft, Top: y0, Right: barLeft + 18, Bottom: y1}, Coolwarm(v))
	}
	for _, v := range []float64{1, 0.5, 0, -0.5, -1} {
		y := top + int(math.Round((1-v)/2*float64(grid)))
		txt := fmt.Sprintf("%.1f", v)
		r.Text(txt, barLeft+24, y+r.MeasureText(txt).Height()/2)
	}

	if err := r.Save(w); err != nil {
		return fmt.Errorf("render %q: %w", l.Title, err)
	}
	return nil
}
