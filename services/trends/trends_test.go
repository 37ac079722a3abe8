package trends

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"twoknow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	sector, markets := Classify("Organic FARMING inputs")
	assert.Equal(t, "Agriculture", sector)
	assert.Contains(t, markets, "Wakulima Market")

	sector, markets = Classify("used cars")
	assert.Equal(t, "Automotive", sector)
	assert.Len(t, markets, 4)

	sector, markets = Classify("honey")
	assert.Equal(t, "General", sector)
	assert.Equal(t, []string{"Nairobi CBD", "Mombasa", "Kisumu"}, markets)

	markets[0] = "mutated"
	_, again := Classify("honey")
	assert.Equal(t, "Nairobi CBD", again[0])
}

func TestDetectSector(t *testing.T) {
	assert.Equal(t, "Agriculture", DetectSector("Wheat flour"))
	assert.Equal(t, "Electronics", DetectSector("mobile accessories"))
	assert.Equal(t, "Automotive", DetectSector("vehicle tyres"))
	assert.Equal(t, "General", DetectSector("honey"))
}

func TestMergeMarkets(t *testing.T) {
	got := mergeMarkets(5, []string{"A", "B", "C"}, []string{"B", "D", "E", "F"})
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, got)
}

func TestCacheExpiry(t *testing.T) {
	metrics := NewMetrics()
	cache := NewCache(time.Minute, metrics)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	_, ok := cache.Get("k")
	assert.False(t, ok)

	cache.Set("k", []models.HistoricalPoint{{Date: "2025-01-01", Value: 10}})
	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Len(t, got, 1)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())

	snap := metrics.Snapshot()
	assert.Equal(t, 1, snap[MetricCacheHits])
	assert.Equal(t, 2, snap[MetricCacheMisses])
}

type fakeFetcher struct {
	calls   []string
	respond func(query string) ([]models.HistoricalPoint, error)
}

func (f *fakeFetcher) InterestOverTime(_ context.Context, query, _ string) ([]models.HistoricalPoint, error) {
	f.calls = append(f.calls, query)
	return f.respond(query)
}

func newTestSource(f Fetcher) (*HistoricalSource, *[]time.Duration) {
	src := NewHistoricalSource(f, NewCache(time.Hour, nil), 3, time.Second, nil)
	var slept []time.Duration
	src.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return src, &slept
}

func TestHistoricalRetriesThenFallsBack(t *testing.T) {
	f := &fakeFetcher{respond: func(string) ([]models.HistoricalPoint, error) {
		return nil, errors.New("The request failed: Google returned a response with code 429")
	}}
	src, slept := newTestSource(f)

	points, err := src.Get(context.Background(), "maize", "KE")
	require.NoError(t, err)
	assert.Len(t, points, 12)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)

	snap := src.Metrics.Snapshot()
	assert.Equal(t, 3, snap[MetricRetries])
	assert.Equal(t, 3, snap[MetricRateLimitHits])
	assert.Equal(t, 1, snap[MetricFallbacks])

	again, err := src.Get(context.Background(), "MAIZE", "KE")
	require.NoError(t, err)
	assert.Equal(t, points, again)
	assert.Len(t, f.calls, 3)
}

func TestHistoricalRegionalVariant(t *testing.T) {
	f := &fakeFetcher{respond: func(q string) ([]models.HistoricalPoint, error) {
		if q == "tomatoes Nakuru Kenya" {
			return []models.HistoricalPoint{{Date: "2025-01-01", Value: 0}, {Date: "2025-02-01", Value: 42}}, nil
		}
		return nil, ErrNoData
	}}
	src, _ := newTestSource(f)

	points, err := src.Get(context.Background(), "tomatoes", "Nakuru")
	require.NoError(t, err)
	assert.Equal(t, []models.HistoricalPoint{{Date: "2025-02-01", Value: 42}}, points)

	snap := src.Metrics.Snapshot()
	assert.Equal(t, 1, snap[MetricRegionalQueries])
	assert.Equal(t, 1, snap[MetricRegionalSuccess])
}

func TestDemoRespectsRegionRange(t *testing.T) {
	src, _ := newTestSource(nil)
	for _, p := range src.Demo("honey", "Kisii") {
		assert.GreaterOrEqual(t, p.Value, 10)
		assert.LessOrEqual(t, p.Value, 70)
	}
	points := src.Demo("honey", "Nairobi")
	require.Len(t, points, 12)
	assert.Less(t, points[0].Date, points[11].Date)
}

func TestSerperDemo(t *testing.T) {
	s := NewSerperClient("", nil)
	res := s.Search(context.Background(), "Maize flour")
	assert.Equal(t, 75.0, res.RelevanceScore)
	assert.Equal(t, "Agriculture", res.MarketSector)
	assert.True(t, res.Demo)

	res = s.Search(context.Background(), "honey")
	assert.GreaterOrEqual(t, res.RelevanceScore, 40.0)
	assert.LessOrEqual(t, res.RelevanceScore, 60.0)
}

func TestSerperLiveRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		var body serperRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mobile phones market Kenya", body.Q)
		assert.Equal(t, "ke", body.GL)
		_, _ = w.Write([]byte(`{"organic":[{},{},{},{}]}`))
	}))
	defer srv.Close()

	s := NewSerperClient("secret", nil)
	s.Endpoint = srv.URL
	res := s.Search(context.Background(), "mobile phones")
	assert.Equal(t, 40.0, res.RelevanceScore)
	assert.Equal(t, "Electronics", res.MarketSector)
	assert.False(t, res.Demo)
}

func TestSerperUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewSerperClient("secret", nil)
	s.Endpoint = srv.URL
	res := s.Search(context.Background(), "anything")
	assert.Equal(t, 50.0, res.RelevanceScore)
	assert.Equal(t, []string{"Nairobi"}, res.Regions)
}

func TestServiceAnalyze(t *testing.T) {
	f := &fakeFetcher{respond: func(string) ([]models.HistoricalPoint, error) {
		return []models.HistoricalPoint{{Date: "2025-01-01", Value: 40}, {Date: "2025-02-01", Value: 60}}, nil
	}}
	src, _ := newTestSource(f)
	svc := NewService(NewSerperClient("", nil), src, nil)

	res, err := svc.Analyze(context.Background(), "maize", "")
	require.NoError(t, err)
	assert.Equal(t, "KE", res.Region)
	assert.Equal(t, 75.0, res.LiveTrendScore)
	assert.Equal(t, 65.0, res.OverallScore)
	assert.Equal(t, "Agriculture", res.MarketSector)
	assert.Len(t, res.RelevantMarkets, 5)
	assert.Equal(t, "Serper API + Google Trends", res.DataSource)
	assert.Equal(t, "Kenya", res.Country)
}

func TestServiceAnalyzeCancelled(t *testing.T) {
	f := &fakeFetcher{respond: func(string) ([]models.HistoricalPoint, error) {
		return nil, errors.New("connection reset")
	}}
	src, _ := newTestSource(f)
	svc := NewService(NewSerperClient("", nil), src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Analyze(ctx, "maize", "KE")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeWithoutFetcherCachesDemoSeries(t *testing.T) {
	historical := NewHistoricalSource(nil, NewCache(time.Hour, NewMetrics()), 3, time.Second, nil)
	svc := NewService(NewSerperClient("", nil), historical, nil)

	first, err := svc.Analyze(context.Background(), "maize", "Nairobi")
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), "maize", "Nairobi")
	require.NoError(t, err)

	require.Len(t, first.HistoricalTrends, 12)
	assert.Equal(t, first.HistoricalTrends, second.HistoricalTrends)
	assert.Equal(t, 1, historical.Cache.Len())

	snap := svc.Metrics.Snapshot()
	assert.Equal(t, 1, snap[MetricCacheMisses])
	assert.Equal(t, 1, snap[MetricCacheHits])
	assert.Equal(t, 1, snap[MetricFallbacks])
	assert.Equal(t, 0, snap[MetricRetries])
}

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.Inc(MetricCacheHits)
	m.Inc(MetricCacheHits)
	m.Inc(MetricRetries)
	m.Inc("unknown")

	snap := m.Snapshot()
	assert.Len(t, snap, len(metricNames))
	assert.Equal(t, 2, snap[MetricCacheHits])
	assert.Equal(t, 1, snap[MetricRetries])
	assert.Equal(t, 0, snap[MetricFallbacks])

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, len(metricNames))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "twoknow_trends_cache_hits_total 2"), body)
	assert.Contains(t, body, "twoknow_trends_retries_total 1")
}

func TestDemoResult(t *testing.T) {
	res := DemoResult("Smart phone")
	assert.Equal(t, "Electronics", res.MarketSector)
	assert.Equal(t, "Demo Data", res.DataSource)
	assert.Len(t, res.HistoricalTrends, 6)
}
