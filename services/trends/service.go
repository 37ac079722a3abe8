package trends

import (
	"context"
	"math"
	"strings"

	"twoknow/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxMarkets = 5

// Service combines the live search signal with historical interest.
type Service struct {
	Serper     *SerperClient
	Historical *HistoricalSource
	Metrics    *Metrics
	Log        *zap.Logger
}

func NewService(serper *SerperClient, historical *HistoricalSource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Serper: serper, Historical: historical, Metrics: historical.Metrics, Log: log}
}

// Analyze runs both lookups concurrently and merges them into one result.
func (s *Service) Analyze(ctx context.Context, keyword, region string) (*models.TrendResult, error) {
	if region == "" {
		region = "KE"
	}
	s.Log.Info("analyzing trends", zap.String("keyword", keyword), zap.String("region", region))

	var (
		live       SerperResult
		historical []models.HistoricalPoint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		live = s.Serper.Search(gctx, keyword)
		return nil
	})
	g.Go(func() error {
		var err error
		historical, err = s.Historical.Get(gctx, keyword, region)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sector, markets := Classify(keyword)
	if live.MarketSector != "" {
		sector = live.MarketSector
	}

	var histScore float64
	if len(historical) > 0 {
		sum := 0
		for _, p := range historical {
			sum += p.Value
		}
		histScore = float64(sum) / float64(len(historical))
	}

	return &models.TrendResult{
		Keyword:          keyword,
		Region:           region,
		LiveTrendScore:   round2(live.RelevanceScore),
		OverallScore:     round2(live.RelevanceScore*0.6 + histScore*0.4),
		MarketSector:     sector,
		RelevantMarkets:  mergeMarkets(maxMarkets, markets, live.Regions),
		HistoricalTrends: historical,
		DataSource:       "Serper API + Google Trends",
		Country:          "Kenya",
	}, nil
}

// DemoResult is served by the public endpoint when analysis fails.
func DemoResult(keyword string) *models.TrendResult {
	sector := "General"
	switch lower := strings.ToLower(keyword); {
	case strings.Contains(lower, "maize"):
		sector = "Agriculture"
	case strings.Contains(lower, "phone"):
		sector = "Electronics"
	}
	return &models.TrendResult{
		Keyword:        keyword,
		Region:         "KE",
		LiveTrendScore: 75,
		OverallScore:   75,
		MarketSector:   sector,
		RelevantMarkets: []string{
			"Nairobi Market", "Mombasa", "Kisumu",
		},
		HistoricalTrends: []models.HistoricalPoint{
			{Date: "2024-01", Value: 65},
			{Date: "2024-02", Value: 70},
			{Date: "2024-03", Value: 68},
			{Date: "2024-04", Value: 75},
			{Date: "2024-05", Value: 80},
			{Date: "2024-06", Value: 78},
		},
		DataSource: "Demo Data",
		Country:    "Kenya",
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
