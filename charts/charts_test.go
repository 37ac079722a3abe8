package charts

import (
	"bytes"
	"testing"

	"twoknow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTrendSortsAndColors(t *testing.T) {
	r := NewRenderer(nil)
	points := []models.HistoricalPoint{
		{Date: "2024-03-15", Value: 70},
		{Date: "2024-01-15", Value: 50},
		{Date: "2024-02", Value: 60},
	}

	require.True(t, r.UpdateTrend(points, "maize"))
	c := r.Trend()
	assert.Equal(t, []string{"Jan 24", "Feb 24", "Mar 24"}, c.Labels)
	assert.Equal(t, []float64{50, 60, 70}, c.Values)
	assert.Equal(t, "maize Market Interest", c.Label)
	assert.Equal(t, ColorGreen, c.Color)

	// caller's slice is not reordered
	assert.Equal(t, "2024-03-15", points[0].Date)
}

func TestUpdateTrendDecliningAndFlat(t *testing.T) {
	r := NewRenderer(nil)
	require.True(t, r.UpdateTrend([]models.HistoricalPoint{{Date: "2024-01", Value: 80}, {Date: "2024-02", Value: 30}}, "phone"))
	assert.Equal(t, ColorRed, r.Trend().Color)

	// equal ends keep the previous color
	require.True(t, r.UpdateTrend([]models.HistoricalPoint{{Date: "2024-01", Value: 40}, {Date: "2024-02", Value: 40}}, "phone"))
	assert.Equal(t, ColorRed, r.Trend().Color)
}

func TestUpdateTrendEmptyLeavesChart(t *testing.T) {
	r := NewRenderer(nil)
	require.True(t, r.UpdateTrend([]models.HistoricalPoint{{Date: "2024-01", Value: 40}}, "rice"))
	before := r.Trend()

	assert.False(t, r.UpdateTrend(nil, "rice"))
	assert.Equal(t, before, r.Trend())
}

func TestComputeStats(t *testing.T) {
	st, ok := ComputeStats([]models.HistoricalPoint{
		{Date: "2024-03-15", Value: 70},
		{Date: "2024-01-15", Value: 50},
	})
	require.True(t, ok)
	assert.Equal(t, 70, st.Peak)
	assert.Equal(t, 60, st.Average)
	assert.Equal(t, Rising, st.Direction)

	st, _ = ComputeStats([]models.HistoricalPoint{
		{Date: "2024-01", Value: 80}, {Date: "2024-02", Value: 78},
		{Date: "2024-03", Value: 60}, {Date: "2024-04", Value: 61},
	})
	assert.Equal(t, Declining, st.Direction)

	st, _ = ComputeStats([]models.HistoricalPoint{
		{Date: "2024-01", Value: 50}, {Date: "2024-02", Value: 54},
	})
	assert.Equal(t, Stable, st.Direction)

	_, ok = ComputeStats(nil)
	assert.False(t, ok)
}

func TestFilterRange(t *testing.T) {
	points := []models.HistoricalPoint{
		{Date: "2024-01", Value: 1}, {Date: "2024-02", Value: 2},
		{Date: "2024-03", Value: 3}, {Date: "2024-04", Value: 4},
	}
	got := FilterRange(points, 2)
	assert.Equal(t, []int{3, 4}, []int{got[0].Value, got[1].Value})
	assert.Len(t, FilterRange(points, 12), 4)
	assert.Len(t, FilterRange(points, 0), 4)
}

func TestUpdateComparison(t *testing.T) {
	r := NewRenderer(nil)
	r.UpdateComparison(
		models.TrendResult{Keyword: "maize", HistoricalTrends: []models.HistoricalPoint{{Date: "2024-02-15", Value: 60}, {Date: "2024-01-15", Value: 55}}},
		models.TrendResult{Keyword: "beans"},
	)
	c1, c2 := r.Comparison()
	assert.Equal(t, []string{"Jan", "Feb"}, c1.Labels)
	assert.Equal(t, "maize", c1.Label)
	assert.Equal(t, ColorIndigo, c1.Color)
	assert.Equal(t, "Product 2", c2.Label)
	assert.Empty(t, c2.Values)
}

func TestPredictionChart(t *testing.T) {
	p := NewRenderer(nil).Prediction()
	assert.Equal(t, []float64{65, 68, 72, 70}, p.Values)
	assert.Equal(t, ColorAmber, p.Color)
	assert.Equal(t, "Predicted Trend", p.Label)
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁█", Sparkline([]float64{0, 100}, 0))
	assert.Equal(t, "█▁", Sparkline([]float64{0, 150, -3}, 2))
	assert.Equal(t, "", Sparkline(nil, 10))
}

func TestRenderPNG(t *testing.T) {
	r := NewRenderer(nil)
	require.True(t, r.UpdateTrend([]models.HistoricalPoint{
		{Date: "2024-01", Value: 40}, {Date: "2024-02", Value: 55}, {Date: "2024-03", Value: 62},
	}, "maize"))

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, r.Trend()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.ErrorIs(t, RenderPNG(&buf, Chart{}), ErrEmptyChart)
}
