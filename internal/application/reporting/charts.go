package reporting

import (
	"bytes"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

var (
	claimsColor = color.RGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}
	titlesColor = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
)

// ChartSize is the rendered chart size in points.
type ChartSize struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultChartSize fits the HTML report column.
var DefaultChartSize = ChartSize{Width: 8 * vg.Inch, Height: 4 * vg.Inch}

// TrendChartPNG plots monthly claims and titles as two lines over the trend
// points, labelled "Mon YYYY".
func TrendChartPNG(points []fra.TrendPoint, size ChartSize) ([]byte, error) {
	if len(points) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "no trend data to plot")
	}

	claims := make(plotter.XYs, len(points))
	titles := make(plotter.XYs, len(points))
	labels := make(categoryTicks, len(points))
	for i, p := range points {
		claims[i] = plotter.XY{X: float64(i), Y: float64(p.Claims)}
		titles[i] = plotter.XY{X: float64(i), Y: float64(p.Titles)}
		labels[i] = shortMonth(p.Month) + " " + strconv.Itoa(p.Year)
	}

	p := plot.New()
	p.Title.Text = "Monthly claims and titles"
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.BackgroundColor = color.White
	p.Legend.Top = true

	for _, s := range []struct {
		name string
		pts  plotter.XYs
		clr  color.Color
	}{
		{"Claims received", claims, claimsColor},
		{"Titles distributed", titles, titlesColor},
	} {
		line, err := plotter.NewLine(s.pts)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "trend line")
		}
		line.Color = s.clr
		line.Width = vg.Points(2)

		scatter, err := plotter.NewScatter(s.pts)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "trend points")
		}
		scatter.Color = s.clr
		scatter.Radius = vg.Points(3)
		scatter.Shape = draw.CircleGlyph{}

		p.Add(line, scatter)
		p.Legend.Add(s.name, line)
	}
	p.Add(plotter.NewGrid())

	p.X.Tick.Marker = labels
	p.X.Min = -0.5
	p.X.Max = float64(len(points)) - 0.5
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	p.Y.Tick.Marker = compactTicks{}

	return renderPNG(p, size)
}

// StateBarChartPNG draws claims and titles per state as grouped bars.
func StateBarChartPNG(title string, groups []fra.StateGroup, size ChartSize) ([]byte, error) {
	if len(groups) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "no state data to plot")
	}

	claims := make(plotter.Values, len(groups))
	titles := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		claims[i] = float64(g.Claims)
		titles[i] = float64(g.Titles)
		names[i] = g.State
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.BackgroundColor = color.White
	p.Legend.Top = true

	w := vg.Points(12)
	cb, err := plotter.NewBarChart(claims, w)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "claims bars")
	}
	cb.Color = claimsColor
	cb.LineStyle.Width = 0
	cb.Offset = -w / 2

	tb, err := plotter.NewBarChart(titles, w)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "titles bars")
	}
	tb.Color = titlesColor
	tb.LineStyle.Width = 0
	tb.Offset = w / 2

	p.Add(cb, tb, plotter.NewGrid())
	p.Legend.Add("Claims", cb)
	p.Legend.Add("Titles", tb)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Tick.Marker = compactTicks{}

	return renderPNG(p, size)
}

func renderPNG(p *plot.Plot, size ChartSize) ([]byte, error) {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultChartSize
	}
	wt, err := p.WriterTo(size.Width, size.Height, "png")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "chart canvas")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "chart encode")
	}
	return buf.Bytes(), nil
}

type categoryTicks []string

func (ct categoryTicks) Ticks(min, max float64) []plot.Tick {
	step := 1
	if n := len(ct); n > 12 {
		step = (n + 11) / 12
	}
	ticks := make([]plot.Tick, 0, len(ct))
	for i, label := range ct {
		t := plot.Tick{Value: float64(i)}
		if i%step == 0 {
			t.Label = label
		}
		ticks = append(ticks, t)
	}
	return ticks
}

type compactTicks struct{}

func (compactTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = FormatCompact(ticks[i].Value)
		}
	}
	return ticks
}

// FormatCompact renders large counts as 1.2M or 450K.
func FormatCompact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', 0, 64) + "K"
	default:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
}

func shortMonth(m string) string {
	c := fra.CanonicalMonth(m)
	if len(c) > 3 && fra.IsKnownMonth(c) {
		return c[:3]
	}
	return c
}

//Personal.AI order the ending
