// Package charts keeps the state of the dashboard's line charts and renders
// them for the terminal and for image export.
package charts

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"twoknow/models"
)

// Dataset colors.
const (
	ColorIndigo = "#4F46E5"
	ColorGreen  = "#10B981"
	ColorRed    = "#EF4444"
	ColorAmber  = "#F59E0B"
	ColorGray   = "#6B7280"
)

// Chart is one line chart with a single dataset.
type Chart struct {
	Title  string
	Label  string
	Labels []string
	Values []float64
	Color  string
	Dashed bool
}

func (c *Chart) clone() Chart {
	out := *c
	out.Labels = append([]string(nil), c.Labels...)
	out.Values = append([]float64(nil), c.Values...)
	return out
}

// Renderer owns the trend, comparison and prediction charts.
type Renderer struct {
	mu          sync.RWMutex
	trend       Chart
	comparison1 Chart
	comparison2 Chart
	prediction  Chart
	log         *zap.Logger
}

// NewRenderer returns a renderer with the charts in their initial state.
func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		trend:       Chart{Title: "Market Interest", Label: "Market Interest", Color: ColorIndigo},
		comparison1: Chart{Title: "Product 1 Trend", Label: "Product 1", Color: ColorIndigo},
		comparison2: Chart{Title: "Product 2 Trend", Label: "Product 2", Color: ColorGreen},
		prediction: Chart{
			Title:  "30-Day Prediction",
			Label:  "Predicted Trend",
			Labels: []string{"Week 1", "Week 2", "Week 3", "Week 4"},
			Values: []float64{65, 68, 72, 70},
			Color:  ColorAmber,
			Dashed: true,
		},
		log: log,
	}
}

func (r *Renderer) Trend() Chart {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.trend.clone()
}

func (r *Renderer) Comparison() (Chart, Chart) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.comparison1.clone(), r.comparison2.clone()
}

func (r *Renderer) Prediction() Chart {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.prediction.clone()
}

// UpdateTrend replaces the trend chart with points sorted by date and
// recolors it by direction. Empty input leaves the chart untouched and
// reports false.
func (r *Renderer) UpdateTrend(points []models.HistoricalPoint, keyword string) bool {
	if len(points) == 0 {
		r.log.Warn("no chart data available", zap.String("keyword", keyword))
		return false
	}
	if keyword == "" {
		keyword = "Product"
	}
	sorted := SortByDate(points)
	labels, values := series(sorted, "Jan 06")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.trend.Labels = labels
	r.trend.Values = values
	r.trend.Label = keyword + " Market Interest"
	first, last := values[0], values[len(values)-1]
	switch {
	case last > first:
		r.trend.Color = ColorGreen
	case last < first:
		r.trend.Color = ColorRed
	}
	return true
}

// UpdateComparison fills both comparison charts. Month labels omit the
// year. A side without history keeps its previous data.
func (r *Renderer) UpdateComparison(r1, r2 models.TrendResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fill := func(c *Chart, res models.TrendResult) {
		if len(res.HistoricalTrends) == 0 {
			return
		}
		c.Labels, c.Values = series(SortByDate(res.HistoricalTrends), "Jan")
		c.Label = res.Keyword
	}
	fill(&r.comparison1, r1)
	fill(&r.comparison2, r2)
}

// SortByDate returns a copy of points in ascending date order.
func SortByDate(points []models.HistoricalPoint) []models.HistoricalPoint {
	sorted := append([]models.HistoricalPoint(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return ParseDate(sorted[i].Date).Before(ParseDate(sorted[j].Date))
	})
	return sorted
}

var dateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339, "2006-01-02T15:04:05", "2006/01/02"}

// ParseDate accepts full dates and year-month strings. Unparseable dates
// sort first.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func series(points []models.HistoricalPoint, layout string) ([]string, []float64) {
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		if t := ParseDate(p.Date); !t.IsZero() {
			labels[i] = t.Format(layout)
		} else {
			labels[i] = p.Date
		}
		values[i] = float64(p.Value)
	}
	return labels, values
}

// FilterRange keeps the last months points.
func FilterRange(points []models.HistoricalPoint, months int) []models.HistoricalPoint {
	if months <= 0 || months >= len(points) {
		return append([]models.HistoricalPoint(nil), points...)
	}
	return append([]models.HistoricalPoint(nil), points[len(points)-months:]...)
}

// Direction labels.
const (
	Rising    = "Rising"
	Declining = "Declining"
	Stable    = "Stable"
)

// Stats summarizes a historical series.
type Stats struct {
	Peak      int
	Average   int
	Direction string
	Color     string
}

// ComputeStats reports the peak, the rounded average and the direction of
// the date-ordered series.
func ComputeStats(points []models.HistoricalPoint) (Stats, bool) {
	sorted := SortByDate(points)
	values := make([]float64, len(sorted))
	for i, p := range sorted {
		values[i] = float64(p.Value)
	}
	return ValueStats(values)
}

// ValueStats compares the second half of values against the first. Halves
// differing by more than 5 points count as a move.
func ValueStats(values []float64) (Stats, bool) {
	if len(values) == 0 {
		return Stats{}, false
	}
	peak := values[0]
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	st := Stats{
		Peak:      int(peak),
		Average:   int(math.Round(mean(values))),
		Direction: Stable,
		Color:     ColorGray,
	}
	half := len(values) / 2
	if half == 0 {
		return st, true
	}
	first, second := mean(values[:half]), mean(values[half:])
	switch {
	case second > first+5:
		st.Direction, st.Color = Rising, ColorGreen
	case second < first-5:
		st.Direction, st.Color = Declining, ColorRed
	}
	return st, true
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
