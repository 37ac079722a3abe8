package trends

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"twoknow/models"

	"go.uber.org/zap"
)

// ErrNoData is returned by a Fetcher when the upstream has no series for a query.
var ErrNoData = errors.New("no trend data")

// Fetcher retrieves interest-over-time points for a query in a country.
type Fetcher interface {
	InterestOverTime(ctx context.Context, query, geo string) ([]models.HistoricalPoint, error)
}

type baseRange struct{ min, max int }

var regionBaseValues = map[string]baseRange{
	"Nairobi": {60, 90},
	"Mombasa": {45, 75},
	"Kisumu":  {40, 70},
	"Nakuru":  {35, 65},
	"Eldoret": {30, 60},
	"Kisii":   {25, 55},
	"Kericho": {25, 55},
	"Meru":    {30, 60},
	"KE":      {50, 85},
}

var defaultBaseRange = baseRange{40, 70}

// HistoricalSource serves twelve months of interest data per keyword and
// region. With a nil Fetcher every cache miss is answered by the demo
// generator, and the generated series is cached like a fetched one.
type HistoricalSource struct {
	Fetcher     Fetcher
	Cache       *Cache
	Metrics     *Metrics
	MaxRetries  int
	BackoffBase time.Duration
	Log         *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewHistoricalSource(fetcher Fetcher, cache *Cache, maxRetries int, backoff time.Duration, log *zap.Logger) *HistoricalSource {
	if log == nil {
		log = zap.NewNop()
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &HistoricalSource{
		Fetcher:     fetcher,
		Cache:       cache,
		Metrics:     cache.metrics,
		MaxRetries:  maxRetries,
		BackoffBase: backoff,
		Log:         log,
		sleep:       sleepContext,
		now:         time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Get returns the series for keyword in region, from cache when fresh. After
// MaxRetries failed rounds it falls back to demo data, which is cached too.
func (h *HistoricalSource) Get(ctx context.Context, keyword, region string) ([]models.HistoricalPoint, error) {
	if region == "" {
		region = "KE"
	}
	key := fmt.Sprintf("%s::%s::today 12-m::rb", strings.ToLower(keyword), region)
	if cached, ok := h.Cache.Get(key); ok {
		return cached, nil
	}

	if h.Fetcher == nil {
		h.Log.Debug("no trends fetcher, using demo data", zap.String("keyword", keyword), zap.String("region", region))
		return h.fallback(key, keyword, region), nil
	}

	variants := []string{keyword}
	if region != "KE" {
		variants = []string{fmt.Sprintf("%s %s Kenya", keyword, region), keyword}
	}

	for attempt := 1; attempt <= h.MaxRetries; attempt++ {
		for _, q := range variants {
			regional := q != keyword
			if regional {
				h.Metrics.Inc(MetricRegionalQueries)
			}

			points, err := h.Fetcher.InterestOverTime(ctx, q, "KE")
			if err != nil {
				if errors.Is(err, ErrNoData) {
					continue
				}
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				h.Log.Warn("historical trends attempt failed",
					zap.Int("attempt", attempt), zap.String("query", q), zap.Error(err))
				h.Metrics.Inc(MetricRetries)
				if isRateLimit(err) {
					h.Metrics.Inc(MetricRateLimitHits)
					break
				}
				continue
			}

			points = positivePoints(points)
			if len(points) == 0 {
				continue
			}
			if regional {
				h.Metrics.Inc(MetricRegionalSuccess)
			}
			h.Cache.Set(key, points)
			return points, nil
		}

		if attempt < h.MaxRetries {
			backoff := h.BackoffBase * time.Duration(1<<(attempt-1))
			if err := h.sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}
	}

	h.Log.Warn("historical trends exhausted retries, using demo data",
		zap.String("keyword", keyword), zap.String("region", region), zap.Int("retries", h.MaxRetries))
	return h.fallback(key, keyword, region), nil
}

// fallback generates and caches a demo series for key.
func (h *HistoricalSource) fallback(key, keyword, region string) []models.HistoricalPoint {
	h.Metrics.Inc(MetricFallbacks)
	demo := h.Demo(keyword, region)
	h.Cache.Set(key, demo)
	return demo
}

// Demo generates twelve monthly points biased by region search volume.
func (h *HistoricalSource) Demo(keyword, region string) []models.HistoricalPoint {
	r, ok := regionBaseValues[region]
	if !ok {
		r = defaultBaseRange
	}

	lower := strings.ToLower(keyword)
	lo, hi := r.min, r.max
	switch {
	case strings.Contains(lower, "maize"):
		lo, hi = minInt(60, r.min), minInt(90, r.max)
	case strings.Contains(lower, "phone"):
		lo, hi = minInt(50, r.min), minInt(80, r.max)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	today := h.now()
	points := make([]models.HistoricalPoint, 0, 12)
	for i := 12; i > 0; i-- {
		date := today.AddDate(0, 0, -30*i)
		base := lo + h.rng.Intn(hi-lo+1)
		value := clamp(base+h.rng.Intn(31)-15, 10, 100)
		points = append(points, models.HistoricalPoint{Date: date.Format("2006-01-02"), Value: value})
	}
	return points
}

func isRateLimit(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many") || strings.Contains(msg, "responseerror")
}

func positivePoints(points []models.HistoricalPoint) []models.HistoricalPoint {
	out := points[:0:0]
	for _, p := range points {
		if p.Value > 0 {
			out = append(out, p)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
