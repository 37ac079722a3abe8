package search

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"twoknow/models"
)

// Score colors shared by the dashboard and comparison views.
const (
	ColorGreen = "#10B981"
	ColorAmber = "#F59E0B"
	ColorRed   = "#EF4444"
)

// Band classifies a 0-100 score.
type Band struct {
	Label string
	Color string
}

// ScoreBand maps a score to Strong (>=70), Moderate (>=40) or Weak.
func ScoreBand(score float64) Band {
	switch {
	case score >= 70:
		return Band{Label: "Strong", Color: ColorGreen}
	case score >= 40:
		return Band{Label: "Moderate", Color: ColorAmber}
	default:
		return Band{Label: "Weak", Color: ColorRed}
	}
}

// TrendStrength maps a live trend score to a direction label.
func TrendStrength(live float64) Band {
	switch {
	case live >= 60:
		return Band{Label: "Rising", Color: ColorGreen}
	case live >= 40:
		return Band{Label: "Stable", Color: ColorAmber}
	default:
		return Band{Label: "Declining", Color: ColorRed}
	}
}

// ComparisonSummary is the verdict of a side-by-side comparison.
type ComparisonSummary struct {
	Winner     string
	Difference float64
	Similar    bool
	Text       string
	Trend1     Band
	Trend2     Band
}

// ComparisonInsight compares overall scores. Differences under 10 points
// count as similar potential.
func ComparisonInsight(r1, r2 models.TrendResult) ComparisonSummary {
	diff := math.Round(math.Abs(r1.OverallScore-r2.OverallScore)*100) / 100
	s := ComparisonSummary{
		Winner:     r2.Keyword,
		Difference: diff,
		Trend1:     TrendStrength(r1.LiveTrendScore),
		Trend2:     TrendStrength(r2.LiveTrendScore),
	}
	if r1.OverallScore > r2.OverallScore {
		s.Winner = r1.Keyword
	}
	pct := strconv.FormatFloat(diff, 'f', -1, 64)
	switch {
	case diff < 10:
		s.Similar = true
		s.Text = "Both products show similar market potential - choose based on your expertise"
	case r1.OverallScore > r2.OverallScore:
		s.Text = fmt.Sprintf("%s has %s%% higher market potential. Strong opportunity window.", r1.Keyword, pct)
	default:
		s.Text = fmt.Sprintf("%s has %s%% higher market potential. Recommended choice.", r2.Keyword, pct)
	}
	return s
}

// Insight is a titled observation shown on the dashboard.
type Insight struct {
	Title       string
	Description string
}

// DashboardInsights returns the potential, seasonal and regional insights
// for a result.
func DashboardInsights(r models.TrendResult) []Insight {
	score := r.OverallScore
	if score == 0 {
		score = 50
	}
	sector := r.MarketSector
	if sector == "" {
		sector = "General"
	}
	region := r.Region
	if region == "" {
		region = DefaultRegion
	}

	potential := Insight{Title: "Limited Opportunity", Description: "Market may be saturated or declining"}
	switch {
	case score >= 70:
		potential = Insight{Title: "High Market Potential", Description: "Strong demand with good profit margins expected"}
	case score >= 40:
		potential = Insight{Title: "Moderate Opportunity", Description: "Steady market with moderate growth potential"}
	}

	seasonal := Insight{Title: "Seasonal Trend", Description: "Consistent demand year-round"}
	switch sector {
	case "Agriculture":
		seasonal.Description = "Peak season typically Oct-Dec"
	case "Electronics":
		seasonal.Description = "High demand during holidays"
	}

	regional := Insight{Title: "Regional Focus", Description: "Nationwide opportunity"}
	if region != DefaultRegion {
		regional.Description = fmt.Sprintf("Strong potential in %s region", region)
	}

	return []Insight{potential, seasonal, regional}
}

// Prediction summarizes the search history.
type Prediction struct {
	LastSearch   string
	LastScore    float64
	AverageScore int
	Trend        string
}

// PredictionSummary compares the latest search with the history average.
// It reports false for an empty history.
func PredictionSummary(history []models.SearchHistoryEntry) (Prediction, bool) {
	if len(history) == 0 {
		return Prediction{}, false
	}
	var sum float64
	for _, h := range history {
		sum += h.Score
	}
	avg := int(math.Round(sum / float64(len(history))))
	last := history[0]

	trend := "Stable"
	switch {
	case last.Score > float64(avg):
		trend = "Rising"
	case last.Score < float64(avg):
		trend = "Declining"
	}
	return Prediction{LastSearch: last.Keyword, LastScore: last.Score, AverageScore: avg, Trend: trend}, true
}

// BestTime suggests when to invest based on the calendar month.
func BestTime(now time.Time) string {
	if m := now.Month(); m >= time.October && m <= time.December {
		return "Oct-Dec (Peak Season)"
	}
	return "Good time to invest"
}

var (
	levels      = []string{"Low", "Medium", "High"}
	trendLabels = []string{"Rising", "Declining", "Stable"}
)

// DetailedAnalysis builds the placeholder analysis for the detailed view
// and downloadable reports. Values are stable per keyword and region.
func DetailedAnalysis(keyword, region string) models.DetailedAnalysis {
	if region == "" {
		region = DefaultRegion
	}
	rng := seeded("analysis", keyword, region)

	var regional []string
	switch region {
	case "Nairobi":
		regional = []string{
			"Focus on urban markets and digital marketing",
			"Partner with supermarkets and retail chains",
			"Consider premium pricing strategies",
		}
	case "Mombasa":
		regional = []string{
			"Leverage coastal tourism opportunities",
			"Focus on wholesale distribution",
			"Consider export opportunities",
		}
	default:
		regional = []string{
			"Build local distributor relationships",
			"Focus on community-based marketing",
			"Consider seasonal demand patterns",
		}
	}

	regions := []string{region}
	for _, r := range []string{"Nairobi", "Mombasa", "Kisumu"} {
		if r != region && len(regions) < 3 {
			regions = append(regions, r)
		}
	}

	a := models.DetailedAnalysis{
		Keyword:      keyword,
		Region:       region,
		OverallScore: 60 + rng.Intn(30),
		Trend:        trendLabels[rng.Intn(len(trendLabels))],
		Competition:  levels[rng.Intn(len(levels))],
		Risk:         levels[rng.Intn(len(levels))],
		Regions:      regions,
	}
	a.Sectors = []string{"Agriculture", "Electronics", "Retail"}[:2+rng.Intn(2)]
	a.ShortTerm = 50 + rng.Intn(40)
	a.MediumTerm = 60 + rng.Intn(40)
	a.LongTerm = 70 + rng.Intn(40)
	a.Recommendations = append(regional,
		"Monitor competitor activities and adjust pricing accordingly",
		"Invest in customer loyalty programs for repeat business",
		"Build partnerships with local distributors",
	)
	return a
}

// RegionName is the display name of a region code.
func RegionName(region string) string {
	if region == "" || region == DefaultRegion {
		return "All Kenya"
	}
	return region
}
