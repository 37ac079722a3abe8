// Package search runs keyword analyses against the backend and falls back
// to locally generated placeholder results when the backend is unavailable.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"twoknow/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyKeyword rejects a search before any request is made.
var ErrEmptyKeyword = errors.New("please enter a product name to analyze")

// DefaultRegion is used when no region is selected.
const DefaultRegion = "KE"

// TrendFetcher retrieves a trend analysis.
type TrendFetcher interface {
	GetTrend(ctx context.Context, keyword, region string) (models.TrendResult, error)
}

// HistoryRecorder persists completed searches.
type HistoryRecorder interface {
	AddToHistory(keyword string, result models.TrendResult) ([]models.SearchHistoryEntry, error)
}

// Outcome is the result of one search.
type Outcome struct {
	Result   models.TrendResult
	Fallback bool
	// Cause is the fetch error that triggered the fallback.
	Cause   error
	History []models.SearchHistoryEntry
}

// Flow performs searches and comparisons.
type Flow struct {
	API     TrendFetcher
	History HistoryRecorder
	Log     *zap.Logger
	Now     func() time.Time
}

func NewFlow(api TrendFetcher, history HistoryRecorder, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{API: api, History: history, Log: log, Now: time.Now}
}

// PerformSearch analyzes keyword in region. Any fetch failure is answered by
// Fallback, so the only returned error is ErrEmptyKeyword. Each valid call
// records exactly one history entry.
func (f *Flow) PerformSearch(ctx context.Context, keyword, region string) (Outcome, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Outcome{}, ErrEmptyKeyword
	}
	if region == "" {
		region = DefaultRegion
	}

	var out Outcome
	result, err := f.API.GetTrend(ctx, keyword, region)
	if err != nil {
		f.Log.Warn("trend fetch failed, using demo data",
			zap.String("keyword", keyword), zap.String("region", region), zap.Error(err))
		out.Result = Fallback(keyword, region, f.Now())
		out.Fallback = true
		out.Cause = err
	} else {
		result.Keyword = keyword
		result.Region = region
		out.Result = result
	}

	if f.History != nil {
		history, herr := f.History.AddToHistory(keyword, out.Result)
		if herr != nil {
			f.Log.Warn("saving search history failed", zap.Error(herr))
		}
		out.History = history
	}
	return out, nil
}

// Compare fetches both keywords concurrently. A failure of either side
// fails the comparison.
func (f *Flow) Compare(ctx context.Context, keyword1, keyword2 string) (models.Comparison, error) {
	keyword1, keyword2 = strings.TrimSpace(keyword1), strings.TrimSpace(keyword2)
	if keyword1 == "" || keyword2 == "" {
		return models.Comparison{}, fmt.Errorf("enter two products to compare: %w", ErrEmptyKeyword)
	}

	var cmp models.Comparison
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := f.API.GetTrend(gctx, keyword1, "")
		if err != nil {
			return fmt.Errorf("fetching %q: %w", keyword1, err)
		}
		cmp.Product1 = r
		return nil
	})
	g.Go(func() error {
		r, err := f.API.GetTrend(gctx, keyword2, "")
		if err != nil {
			return fmt.Errorf("fetching %q: %w", keyword2, err)
		}
		cmp.Product2 = r
		return nil
	})
	if err := g.Wait(); err != nil {
		f.Log.Warn("comparison failed", zap.Error(err))
		return models.Comparison{}, err
	}
	if cmp.Product1.Keyword == "" {
		cmp.Product1.Keyword = keyword1
	}
	if cmp.Product2.Keyword == "" {
		cmp.Product2.Keyword = keyword2
	}
	return cmp, nil
}
