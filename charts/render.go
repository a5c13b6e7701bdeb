// Package charts draws the dashboard aggregations as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"vehicle-dashboard/models"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("charts: no data to render")

// maxLegendSeries caps the legend; past it the legend would cover the plot.
const maxLegendSeries = 12

// palette follows plotly's Dark24 qualitative sequence.
var palette = []drawing.Color{
	drawing.ColorFromHex("2E91E5"), drawing.ColorFromHex("E15F99"), drawing.ColorFromHex("1CA71C"),
	drawing.ColorFromHex("FB0D0D"), drawing.ColorFromHex("DA16FF"), drawing.ColorFromHex("222A2A"),
	drawing.ColorFromHex("B68100"), drawing.ColorFromHex("750D86"), drawing.ColorFromHex("EB663B"),
	drawing.ColorFromHex("511CFB"), drawing.ColorFromHex("00A08B"), drawing.ColorFromHex("FB00D1"),
	drawing.ColorFromHex("FC0080"), drawing.ColorFromHex("B2828D"), drawing.ColorFromHex("6C7C32"),
	drawing.ColorFromHex("778AAE"), drawing.ColorFromHex("862A16"), drawing.ColorFromHex("A777F1"),
	drawing.ColorFromHex("620042"), drawing.ColorFromHex("1616A7"), drawing.ColorFromHex("DA60CA"),
	drawing.ColorFromHex("6C4516"), drawing.ColorFromHex("0D2A63"), drawing.ColorFromHex("AF0038"),
}

func colorAt(i int) drawing.Color {
	return palette[i%len(palette)]
}

// Renderer draws charts at a fixed base size. Bar charts widen with the
// number of bars so labels stay readable.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a Renderer producing width x height images.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 576
	}
	return &Renderer{Width: width, Height: height}
}

func (r *Renderer) widthFor(bars, perBar int) int {
	return max(r.Width, 120+bars*perBar)
}

// StackedHistogram draws one stacked bar per category, one segment per group.
func (r *Renderer) StackedHistogram(h models.StackedHistogram) ([]byte, error) {
	if len(h.Bars) == 0 {
		return nil, ErrNoData
	}

	groupColor := make(map[string]drawing.Color, len(h.Groups))
	for i, g := range h.Groups {
		groupColor[g] = colorAt(i)
	}

	bars := make([]chart.StackedBar, 0, len(h.Bars))
	for _, b := range h.Bars {
		values := make([]chart.Value, 0, len(b.Segments))
		for _, s := range b.Segments {
			c := groupColor[s.Group]
			values = append(values, chart.Value{
				Label: s.Group,
				Value: float64(s.Count),
				Style: chart.Style{FillColor: c, StrokeColor: c},
			})
		}
		bars = append(bars, chart.StackedBar{Name: b.Label, Values: values})
	}

	sbc := chart.StackedBarChart{
		Title:      h.Title,
		Width:      r.widthFor(len(bars), 48),
		Height:     r.Height,
		BarSpacing: 8,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Bars:       bars,
	}
	return render(sbc.Render)
}

// PriceDistribution overlays each manufacturer's histogram as a filled step line.
func (r *Renderer) PriceDistribution(d models.PriceDistribution) ([]byte, error) {
	if len(d.Series) == 0 || len(d.BinEdges) < 2 {
		return nil, ErrNoData
	}

	series := make([]chart.Series, 0, len(d.Series))
	maxY := 0.0
	for i, s := range d.Series {
		xs := make([]float64, 0, 2*len(s.Values))
		ys := make([]float64, 0, 2*len(s.Values))
		for bin, v := range s.Values {
			xs = append(xs, d.BinEdges[bin], d.BinEdges[bin+1])
			ys = append(ys, v, v)
			maxY = math.Max(maxY, v)
		}
		c := colorAt(i)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Manufacturer,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: c, StrokeWidth: 2, FillColor: c.WithAlpha(64)},
		})
	}

	yName := "count"
	if d.Normalized {
		yName = "percent"
	}
	ch := chart.Chart{
		Title:      d.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 10}},
		XAxis:      chart.XAxis{Name: "price_usd", Range: paddedRange(d.BinEdges[0], d.BinEdges[len(d.BinEdges)-1])},
		YAxis:      chart.YAxis{Name: yName, Range: paddedRange(0, maxY)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return render(ch.Render)
}

// Depreciation draws price against odometer, one colour per model, with the
// fitted trendlines on top.
func (r *Renderer) Depreciation(d models.Depreciation) ([]byte, error) {
	if !d.ShowScatter || len(d.Points) == 0 {
		return nil, ErrNoData
	}

	type xy struct{ xs, ys []float64 }
	byModel := make(map[string]*xy)
	var order []string
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range d.Points {
		pts, ok := byModel[p.Model]
		if !ok {
			pts = &xy{}
			byModel[p.Model] = pts
			order = append(order, p.Model)
		}
		pts.xs = append(pts.xs, p.Odometer)
		pts.ys = append(pts.ys, p.PriceUSD)
		minX, maxX = math.Min(minX, p.Odometer), math.Max(maxX, p.Odometer)
		minY, maxY = math.Min(minY, p.PriceUSD), math.Max(maxY, p.PriceUSD)
	}

	modelColor := make(map[string]drawing.Color, len(order))
	series := make([]chart.Series, 0, len(order)+len(d.Trendlines))
	for i, model := range order {
		c := colorAt(i)
		modelColor[model] = c
		series = append(series, chart.ContinuousSeries{
			Name:    model,
			XValues: byModel[model].xs,
			YValues: byModel[model].ys,
			Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 3, DotColor: c.WithAlpha(160)},
		})
	}
	for _, t := range d.Trendlines {
		c, ok := modelColor[t.Model]
		if !ok {
			continue
		}
		y0 := t.Intercept + t.Slope*t.MinX
		y1 := t.Intercept + t.Slope*t.MaxX
		minY, maxY = math.Min(minY, math.Min(y0, y1)), math.Max(maxY, math.Max(y0, y1))
		series = append(series, chart.ContinuousSeries{
			Name:    t.Model + " (OLS)",
			XValues: []float64{t.MinX, t.MaxX},
			YValues: []float64{y0, y1},
			Style:   chart.Style{StrokeColor: c, StrokeWidth: 2},
		})
	}

	ch := chart.Chart{
		Title:      d.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 10}},
		XAxis:      chart.XAxis{Name: "Odometer Reading (miles)", Range: paddedRange(minX, maxX)},
		YAxis:      chart.YAxis{Name: "Price (USD)", Range: paddedRange(minY, maxY)},
		Series:     series,
	}
	if len(order) <= maxLegendSeries {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return render(ch.Render)
}

// DaysListed draws one bar per model in the order given.
func (r *Renderer) DaysListed(c models.DaysListedChart) ([]byte, error) {
	if len(c.Models) == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, 0, len(c.Models))
	maxY := 0.0
	for i, m := range c.Models {
		col := colorAt(i)
		bars = append(bars, chart.Value{
			Label: m.Model,
			Value: m.AverageListedDays,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
		maxY = math.Max(maxY, m.AverageListedDays)
	}

	bc := chart.BarChart{
		Title:      c.Title,
		Width:      r.widthFor(len(bars), 40),
		Height:     r.Height,
		BarWidth:   30,
		BarSpacing: 10,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		YAxis:      chart.YAxis{Name: "Average Listed Days", Range: paddedRange(0, maxY)},
		Bars:       bars,
	}
	return render(bc.Render)
}

// paddedRange widens a degenerate range; go-chart rejects zero-width axes.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if hi <= lo {
		lo, hi = lo-1, lo+1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func render(fn func(chart.RendererProvider, io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("charts: render: %w", err)
	}
	return buf.Bytes(), nil
}
