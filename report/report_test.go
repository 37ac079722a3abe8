package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"twoknow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)

func isPDF(t *testing.T, b []byte) {
	t.Helper()
	require.True(t, bytes.HasPrefix(b, []byte("%PDF-")), "missing pdf header")
}

func TestUserDataPDF(t *testing.T) {
	var buf bytes.Buffer
	history := []models.SearchHistoryEntry{
		{Keyword: "maize", Region: "KE", Timestamp: "2025-03-19T10:00:00Z", Score: 72, Sector: "Agriculture"},
		{Keyword: "mitumba", Region: "Nairobi", Timestamp: "2025-03-18T10:00:00Z", Score: 55.5, Sector: "Clothing"},
	}
	require.NoError(t, UserDataPDF(&buf, models.Session{Email: "amina@example.co.ke", DisplayName: "Amina Wanjiru"}, history, now))
	isPDF(t, buf.Bytes())
}

func TestUserDataPDFLongHistoryPaginates(t *testing.T) {
	history := make([]models.SearchHistoryEntry, 60)
	for i := range history {
		history[i] = models.SearchHistoryEntry{Keyword: "maize", Region: "KE", Score: 50}
	}
	var buf bytes.Buffer
	require.NoError(t, UserDataPDF(&buf, models.Session{Email: "a@b.co"}, history, now))
	isPDF(t, buf.Bytes())
}

func TestUserDataPDFNoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, UserDataPDF(&buf, models.Session{}, nil, now), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestSearchReportPDF(t *testing.T) {
	var buf bytes.Buffer
	a := models.DetailedAnalysis{
		Keyword: "Sukuma wiki", Region: "Nairobi", OverallScore: 74, Trend: "Rising",
		Competition: "Medium", Risk: "Low", ShortTerm: 60, MediumTerm: 70, LongTerm: 80,
		Recommendations: []string{"Focus on urban markets and digital marketing"},
	}
	require.NoError(t, SearchReportPDF(&buf, a, now))
	isPDF(t, buf.Bytes())

	assert.ErrorIs(t, SearchReportPDF(&buf, models.DetailedAnalysis{}, now), ErrNoData)
}

func TestTrendPDF(t *testing.T) {
	var buf bytes.Buffer
	r := models.TrendResult{
		Keyword: "maize", OverallScore: 65, LiveTrendScore: 75, MarketSector: "Agriculture",
		RelevantMarkets:  []string{"Wakulima Market", "Kongowea"},
		HistoricalTrends: []models.HistoricalPoint{{Date: "2024-01", Value: 50}},
	}
	require.NoError(t, TrendPDF(&buf, r, now))
	isPDF(t, buf.Bytes())
	assert.ErrorIs(t, TrendPDF(&buf, models.TrendResult{}, now), ErrNoData)
}

func TestTrendPDFEmbedsUnicodeFont(t *testing.T) {
	var buf bytes.Buffer
	r := models.TrendResult{
		Keyword: "Кукуруза", OverallScore: 61, MarketSector: "Agriculture",
		RelevantMarkets:  []string{"Marché Kongowea", "Ngara Ελλάδα"},
		HistoricalTrends: []models.HistoricalPoint{{Date: "2024-01", Value: 50}},
	}
	require.NoError(t, TrendPDF(&buf, r, now))
	isPDF(t, buf.Bytes())
	assert.Contains(t, buf.String(), "/Identity-H")
	assert.Contains(t, buf.String(), "/FontFile2")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, []models.SearchHistoryEntry{{Keyword: "maize"}}))
	var out []models.SearchHistoryEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "maize", out[0].Keyword)

	assert.ErrorIs(t, JSON(&buf, nil), ErrNoData)
	assert.ErrorIs(t, JSON(&buf, []models.SearchHistoryEntry{}), ErrNoData)
	var r *models.TrendResult
	assert.ErrorIs(t, JSON(&buf, r), ErrNoData)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "2KNOW-Sukuma-wiki-Kenya-2025-03-20.pdf", Filename("2KNOW", "pdf", "Sukuma wiki", "Kenya", "2025-03-20"))
	assert.Equal(t, "2know-kenyan-markets-2025-03-20.json", Filename("2know-kenyan-markets", ".json", "2025-03-20"))
	assert.Equal(t, "2KNOW-a-b.png", Filename("2KNOW", "png", "a/b", "  "))
}
