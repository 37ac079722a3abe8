package charts

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyChart is returned when rendering a chart without data.
var ErrEmptyChart = errors.New("chart has no data")

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values on a 0-100 scale as block characters. When width
// is positive and smaller than len(values) only the last width values are
// drawn.
func Sparkline(values []float64, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	var b strings.Builder
	for _, v := range values {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		idx := int(v / 100 * float64(len(sparkBlocks)-1))
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// RenderPNG writes c as a PNG line chart with a 0-100% y axis.
func RenderPNG(w io.Writer, c Chart) error {
	if len(c.Values) == 0 {
		return ErrEmptyChart
	}

	xs := make([]float64, len(c.Values))
	ticks := make([]chart.Tick, len(c.Values))
	for i := range c.Values {
		xs[i] = float64(i)
		label := ""
		if i < len(c.Labels) {
			label = c.Labels[i]
		}
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	ys := append([]float64(nil), c.Values...)
	// a single point has no x range
	if len(xs) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
	}

	col := hexColor(c.Color)
	style := chart.Style{
		StrokeColor: col,
		StrokeWidth: 3,
		FillColor:   col.WithAlpha(26),
		DotColor:    col,
		DotWidth:    4,
	}
	if c.Dashed {
		style.StrokeDashArray = []float64{5, 5}
	}

	yTicks := make([]chart.Tick, 0, 5)
	for v := 0; v <= 100; v += 25 {
		yTicks = append(yTicks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d%%", v)})
	}

	graph := chart.Chart{
		Title:      c.Title,
		Width:      960,
		Height:     480,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Date", Ticks: ticks},
		YAxis: chart.YAxis{
			Name:  "Interest Score",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks: yTicks,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: c.Label, XValues: xs, YValues: ys, Style: style},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering %q chart: %w", c.Label, err)
	}
	return nil
}
