package search

import (
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"twoknow/models"
)

var fallbackMarkets = []string{"Nairobi Market", "Mombasa", "Kisumu", "Nakuru"}

// seeded returns a generator that is stable for the given parts, so the
// same keyword and region always produce the same placeholder numbers.
func seeded(parts ...string) *rand.Rand {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(strings.ToLower(p)))
		_, _ = h.Write([]byte{0})
	}
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// SectorFor guesses a market sector from the keyword.
func SectorFor(keyword string) string {
	k := strings.ToLower(keyword)
	switch {
	case strings.Contains(k, "maize"), strings.Contains(k, "corn"), strings.Contains(k, "wheat"):
		return "Agriculture"
	case strings.Contains(k, "phone"), strings.Contains(k, "mobile"):
		return "Electronics"
	case strings.Contains(k, "car"), strings.Contains(k, "vehicle"):
		return "Automotive"
	default:
		return "General"
	}
}

// Fallback builds a placeholder result with the same shape as a backend
// result. Scores fall in [50,80).
func Fallback(keyword, region string, now time.Time) models.TrendResult {
	if region == "" {
		region = DefaultRegion
	}
	rng := seeded(keyword, region)
	return models.TrendResult{
		Keyword:          keyword,
		Region:           region,
		LiveTrendScore:   float64(50 + rng.Intn(30)),
		OverallScore:     float64(50 + rng.Intn(30)),
		MarketSector:     SectorFor(keyword),
		RelevantMarkets:  append([]string(nil), fallbackMarkets[:2+rng.Intn(3)]...),
		HistoricalTrends: FallbackHistory(rng, 6, now),
		DataSource:       "Demo Data",
		Country:          "Kenya",
	}
}

// FallbackHistory returns one point per month, dated the 15th, for the last
// months months including the current one.
func FallbackHistory(rng *rand.Rand, months int, now time.Time) []models.HistoricalPoint {
	points := make([]models.HistoricalPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		d := time.Date(now.Year(), now.Month()-time.Month(i), 15, 0, 0, 0, 0, time.UTC)
		points = append(points, models.HistoricalPoint{
			Date:  d.Format("2006-01-02"),
			Value: 50 + rng.Intn(30),
		})
	}
	return points
}
