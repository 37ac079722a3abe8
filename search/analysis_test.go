package search

import (
	"testing"
	"time"

	"twoknow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBand(t *testing.T) {
	assert.Equal(t, Band{"Strong", ColorGreen}, ScoreBand(70))
	assert.Equal(t, Band{"Moderate", ColorAmber}, ScoreBand(40))
	assert.Equal(t, Band{"Weak", ColorRed}, ScoreBand(39.9))
	assert.Equal(t, "Rising", TrendStrength(60).Label)
	assert.Equal(t, "Stable", TrendStrength(45).Label)
	assert.Equal(t, "Declining", TrendStrength(10).Label)
}

func TestComparisonInsight(t *testing.T) {
	s := ComparisonInsight(
		models.TrendResult{Keyword: "maize", OverallScore: 70},
		models.TrendResult{Keyword: "beans", OverallScore: 65},
	)
	assert.True(t, s.Similar)
	assert.Equal(t, "maize", s.Winner)
	assert.Equal(t, "Both products show similar market potential - choose based on your expertise", s.Text)

	s = ComparisonInsight(
		models.TrendResult{Keyword: "maize", OverallScore: 50.5},
		models.TrendResult{Keyword: "phones", OverallScore: 75, LiveTrendScore: 61},
	)
	assert.False(t, s.Similar)
	assert.Equal(t, "phones", s.Winner)
	assert.Equal(t, "phones has 24.5% higher market potential. Recommended choice.", s.Text)
	assert.Equal(t, "Rising", s.Trend2.Label)

	s = ComparisonInsight(
		models.TrendResult{Keyword: "maize", OverallScore: 90},
		models.TrendResult{Keyword: "beans", OverallScore: 60},
	)
	assert.Equal(t, "maize has 30% higher market potential. Strong opportunity window.", s.Text)
}

func TestDashboardInsights(t *testing.T) {
	got := DashboardInsights(models.TrendResult{OverallScore: 75, MarketSector: "Agriculture", Region: "Kisumu"})
	require.Len(t, got, 3)
	assert.Equal(t, "High Market Potential", got[0].Title)
	assert.Equal(t, "Peak season typically Oct-Dec", got[1].Description)
	assert.Equal(t, "Strong potential in Kisumu region", got[2].Description)

	got = DashboardInsights(models.TrendResult{MarketSector: "Electronics"})
	assert.Equal(t, "Moderate Opportunity", got[0].Title)
	assert.Equal(t, "High demand during holidays", got[1].Description)
	assert.Equal(t, "Nationwide opportunity", got[2].Description)

	got = DashboardInsights(models.TrendResult{OverallScore: 20})
	assert.Equal(t, "Limited Opportunity", got[0].Title)
	assert.Equal(t, "Consistent demand year-round", got[1].Description)
}

func TestPredictionSummary(t *testing.T) {
	_, ok := PredictionSummary(nil)
	assert.False(t, ok)

	p, ok := PredictionSummary([]models.SearchHistoryEntry{
		{Keyword: "maize", Score: 80},
		{Keyword: "beans", Score: 60},
		{Keyword: "rice", Score: 55},
	})
	require.True(t, ok)
	assert.Equal(t, "maize", p.LastSearch)
	assert.Equal(t, 65, p.AverageScore)
	assert.Equal(t, "Rising", p.Trend)

	p, _ = PredictionSummary([]models.SearchHistoryEntry{{Keyword: "x", Score: 50}})
	assert.Equal(t, "Stable", p.Trend)
}

func TestBestTime(t *testing.T) {
	assert.Equal(t, "Oct-Dec (Peak Season)", BestTime(time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Good time to invest", BestTime(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDetailedAnalysis(t *testing.T) {
	a := DetailedAnalysis("tomatoes", "Mombasa")
	assert.GreaterOrEqual(t, a.OverallScore, 60)
	assert.Less(t, a.OverallScore, 90)
	assert.Contains(t, []string{"Rising", "Declining", "Stable"}, a.Trend)
	assert.Contains(t, []string{"Low", "Medium", "High"}, a.Competition)
	assert.Equal(t, []string{"Mombasa", "Nairobi", "Kisumu"}, a.Regions)
	assert.Equal(t, "Leverage coastal tourism opportunities", a.Recommendations[0])
	assert.Len(t, a.Recommendations, 6)
	assert.GreaterOrEqual(t, a.LongTerm, 70)
	assert.Less(t, a.LongTerm, 110)
	assert.Equal(t, a, DetailedAnalysis("tomatoes", "Mombasa"))

	a = DetailedAnalysis("tomatoes", "")
	assert.Equal(t, "KE", a.Region)
	assert.Equal(t, "Build local distributor relationships", a.Recommendations[0])
	assert.Equal(t, "All Kenya", RegionName(a.Region))
}
