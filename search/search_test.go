package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"twoknow/models"
	"twoknow/session"
	"twoknow/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	calls   []string
	results map[string]models.TrendResult
	errs    map[string]error
}

func (f *fakeAPI) GetTrend(_ context.Context, keyword, region string) (models.TrendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, keyword+"@"+region)
	if err := f.errs[keyword]; err != nil {
		return models.TrendResult{}, err
	}
	return f.results[keyword], nil
}

var fixedNow = time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)

func newFlow(api *fakeAPI) (*Flow, *session.Store) {
	store := session.New(storage.NewMemory(), nil)
	f := NewFlow(api, store, nil)
	f.Now = func() time.Time { return fixedNow }
	return f, store
}

func TestPerformSearchEmptyKeyword(t *testing.T) {
	api := &fakeAPI{}
	f, store := newFlow(api)

	_, err := f.PerformSearch(context.Background(), "   ", "KE")
	assert.ErrorIs(t, err, ErrEmptyKeyword)
	assert.Empty(t, api.calls)
	assert.Empty(t, store.History())
}

func TestPerformSearchSuccess(t *testing.T) {
	api := &fakeAPI{results: map[string]models.TrendResult{
		"maize": {Keyword: "MAIZE", OverallScore: 72, MarketSector: "Agriculture"},
	}}
	f, store := newFlow(api)

	out, err := f.PerformSearch(context.Background(), " maize ", "")
	require.NoError(t, err)
	assert.False(t, out.Fallback)
	assert.Equal(t, "maize", out.Result.Keyword)
	assert.Equal(t, "KE", out.Result.Region)
	assert.Equal(t, []string{"maize@KE"}, api.calls)

	h := store.History()
	require.Len(t, h, 1)
	assert.Equal(t, 72.0, h[0].Score)
}

func TestPerformSearchFallback(t *testing.T) {
	api := &fakeAPI{errs: map[string]error{"maize": errors.New("connection refused")}}
	f, store := newFlow(api)

	out, err := f.PerformSearch(context.Background(), "maize", "Nakuru")
	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.Error(t, out.Cause)
	assert.Equal(t, "Agriculture", out.Result.MarketSector)
	assert.GreaterOrEqual(t, out.Result.OverallScore, 50.0)
	assert.Less(t, out.Result.OverallScore, 80.0)
	assert.Equal(t, "Demo Data", out.Result.DataSource)

	h := store.History()
	require.Len(t, h, 1)
	assert.Equal(t, "Nakuru", h[0].Region)

	_, err = f.PerformSearch(context.Background(), "maize", "Nakuru")
	require.NoError(t, err)
	assert.Len(t, store.History(), 1)
}

func TestFallbackShape(t *testing.T) {
	r := Fallback("Smartphone", "", fixedNow)
	assert.Equal(t, "Electronics", r.MarketSector)
	assert.Equal(t, "KE", r.Region)
	assert.GreaterOrEqual(t, len(r.RelevantMarkets), 2)
	assert.LessOrEqual(t, len(r.RelevantMarkets), 4)
	assert.GreaterOrEqual(t, r.LiveTrendScore, 50.0)
	assert.Less(t, r.LiveTrendScore, 80.0)

	require.Len(t, r.HistoricalTrends, 6)
	assert.Equal(t, "2024-10-15", r.HistoricalTrends[0].Date)
	assert.Equal(t, "2025-03-15", r.HistoricalTrends[5].Date)
	for _, p := range r.HistoricalTrends {
		assert.GreaterOrEqual(t, p.Value, 50)
		assert.Less(t, p.Value, 80)
	}

	assert.Equal(t, r, Fallback("Smartphone", "KE", fixedNow))
	assert.Equal(t, "Automotive", SectorFor("Used Car parts"))
	assert.Equal(t, "General", SectorFor("honey"))
}

func TestCompare(t *testing.T) {
	api := &fakeAPI{results: map[string]models.TrendResult{
		"maize": {Keyword: "maize", OverallScore: 80},
		"beans": {OverallScore: 60},
	}}
	f, _ := newFlow(api)

	cmp, err := f.Compare(context.Background(), "maize", "beans")
	require.NoError(t, err)
	assert.Equal(t, "maize", cmp.Product1.Keyword)
	assert.Equal(t, "beans", cmp.Product2.Keyword)
	assert.Len(t, api.calls, 2)
}

func TestCompareFailsAsWhole(t *testing.T) {
	api := &fakeAPI{
		results: map[string]models.TrendResult{"maize": {Keyword: "maize"}},
		errs:    map[string]error{"beans": errors.New("503")},
	}
	f, _ := newFlow(api)

	_, err := f.Compare(context.Background(), "maize", "beans")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"beans"`)

	_, err = f.Compare(context.Background(), "maize", "")
	assert.ErrorIs(t, err, ErrEmptyKeyword)
}
