package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"twoknow/charts"
	"twoknow/markets"
	"twoknow/models"
	"twoknow/search"
	"twoknow/view"
)

// Search analyzes keyword and shows the result on the dashboard. Backend
// failures fall back to demo data, so the only error is an empty keyword.
func (a *App) Search(ctx context.Context, keyword, region string) (view.DashboardView, error) {
	if region == "" {
		region = a.Session.Region()
	}
	out, err := a.Flow.PerformSearch(ctx, keyword, region)
	if err != nil {
		a.Notifier.Warning("Please enter a product name to analyze")
		return view.DashboardView{}, err
	}
	res := out.Result

	a.mu.Lock()
	a.current = &res
	a.demo = out.Fallback
	a.mu.Unlock()

	a.drawTrend(res)
	if err := a.Session.SetLastSearch(res.Keyword); err != nil {
		a.Log.Warn("saving last search failed", zap.Error(err))
	}

	if out.Fallback {
		a.Notifier.Warning(fallbackMessage(out.Cause))
	} else {
		a.Notifier.Success(fmt.Sprintf("Analysis complete for %q", res.Keyword))
	}
	_ = a.Views.Show(view.SectionDashboard)
	return view.NewDashboardView(res, out.Fallback), nil
}

func fallbackMessage(cause error) string {
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return "Request timed out. Showing demo data."
	}
	return "Using demo data. Live analysis is unavailable."
}

// drawTrend updates the trend chart, generating a six month series when
// the result has none.
func (a *App) drawTrend(res models.TrendResult) {
	points := res.HistoricalTrends
	if len(points) == 0 {
		rng := rand.New(rand.NewSource(a.Now().UnixNano()))
		points = search.FallbackHistory(rng, 6, a.Now())
	}
	a.Charts.UpdateTrend(points, res.Keyword)
}

// Current returns the result on the dashboard.
func (a *App) Current() (models.TrendResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return models.TrendResult{}, false
	}
	return *a.current, true
}

// DashboardView renders the current result.
func (a *App) DashboardView() (view.DashboardView, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return view.DashboardView{}, false
	}
	return view.NewDashboardView(*a.current, a.demo), true
}

// Stats summarizes the series currently drawn on the trend chart.
func (a *App) Stats() (charts.Stats, bool) {
	return charts.ValueStats(a.Charts.Trend().Values)
}

// SetChartRange redraws the trend chart with the last months points of
// the current result.
func (a *App) SetChartRange(months int) bool {
	a.Notifier.Info(fmt.Sprintf("Showing last %d months of data", months))
	res, ok := a.Current()
	if !ok || len(res.HistoricalTrends) == 0 {
		return false
	}
	return a.Charts.UpdateTrend(charts.FilterRange(charts.SortByDate(res.HistoricalTrends), months), res.Keyword)
}

// Compare analyzes two products side by side and remembers the
// comparison.
func (a *App) Compare(ctx context.Context, keyword1, keyword2 string) (search.ComparisonSummary, error) {
	cmp, err := a.Flow.Compare(ctx, keyword1, keyword2)
	if errors.Is(err, search.ErrEmptyKeyword) {
		a.Notifier.Warning("Please enter both products to compare")
		return search.ComparisonSummary{}, err
	}
	if err != nil {
		a.Notifier.Error("Comparison failed. Please try again.")
		return search.ComparisonSummary{}, err
	}

	a.mu.Lock()
	a.comparison = &cmp
	a.mu.Unlock()
	a.Charts.UpdateComparison(cmp.Product1, cmp.Product2)
	if err := a.Session.SaveLastComparison(cmp); err != nil {
		a.Log.Warn("saving comparison failed", zap.Error(err))
	}

	a.Notifier.Success("Comparison complete")
	_ = a.Views.Show(view.SectionTrends)
	return search.ComparisonInsight(cmp.Product1, cmp.Product2), nil
}

// Comparison returns the latest comparison and its verdict.
func (a *App) Comparison() (models.Comparison, search.ComparisonSummary, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.comparison == nil {
		return models.Comparison{}, search.ComparisonSummary{}, false
	}
	cmp := *a.comparison
	return cmp, search.ComparisonInsight(cmp.Product1, cmp.Product2), true
}

func (a *App) loadTrendComparisons() {
	a.mu.Lock()
	cmp := a.comparison
	a.mu.Unlock()
	if cmp == nil {
		stored, ok := a.Session.LastComparison()
		if !ok {
			return
		}
		cmp = &stored
		a.mu.Lock()
		a.comparison = cmp
		a.mu.Unlock()
	}
	a.Charts.UpdateComparison(cmp.Product1, cmp.Product2)
}

// Prediction summarizes the search history for the trends page.
func (a *App) Prediction() (search.Prediction, bool) {
	return search.PredictionSummary(a.Session.History())
}

// History renders the search history.
func (a *App) History() []view.HistoryItem {
	return view.NewHistoryView(a.Session.History(), a.Now())
}

// FilterMarkets filters the directory and keeps the result for export.
func (a *App) FilterMarkets(term, region, marketType string) []models.MarketDirectoryEntry {
	list := markets.Filter(term, region, marketType)
	a.mu.Lock()
	a.marketList = list
	a.mu.Unlock()
	return list
}

// AnalyzeMarket searches the main product of a directory market in that
// market's region.
func (a *App) AnalyzeMarket(ctx context.Context, name string) (view.DashboardView, error) {
	m, ok := markets.Find(name)
	if !ok {
		a.Notifier.Error("Failed to analyze market")
		return view.DashboardView{}, fmt.Errorf("%w: %q", ErrUnknownMarket, name)
	}
	v, err := a.Search(ctx, markets.SearchTerm(m), m.Region)
	if err != nil {
		return v, err
	}
	a.Notifier.Success(fmt.Sprintf("Market analysis started for %s", m.Name))
	return v, nil
}

// DetailedAnalysis builds the detailed view for a keyword and region.
func (a *App) DetailedAnalysis(keyword, region string) models.DetailedAnalysis {
	if region == "" {
		region = a.Session.Region()
	}
	return search.DetailedAnalysis(keyword, region)
}
