package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"twoknow/charts"
	"twoknow/models"
	"twoknow/report"
	"twoknow/search"
)

// writeFile renders into memory first so a failed export leaves no file
// behind.
func (a *App) writeFile(dir, name string, render func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, report.ErrNoData) || errors.Is(err, charts.ErrEmptyChart) {
			a.Notifier.Warning("Nothing to export yet")
		} else {
			a.Notifier.Error("Export failed")
		}
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		a.Notifier.Error("Export failed")
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	a.Log.Info("exported", zap.String("path", path))
	a.Notifier.Success(fmt.Sprintf("Exported %s", name))
	return path, nil
}

func (a *App) today() string { return a.Now().Format("2006-01-02") }

// ExportUserData writes the profile and search history as a PDF, or as
// JSON when asJSON is set.
func (a *App) ExportUserData(dir string, asJSON bool) (string, error) {
	sess := a.Session.Load()
	history := a.Session.History()
	if !a.Session.IsAuthenticated() && len(history) == 0 {
		a.Notifier.Warning("Nothing to export yet")
		return "", report.ErrNoData
	}
	if asJSON {
		sess.Token = ""
		export := models.UserDataExport{
			ExportedAt: a.Now().UTC().Format(time.RFC3339),
			Profile:    sess,
			History:    history,
		}
		return a.writeFile(dir, report.Filename("2KNOW-user-export", "json", a.today()), func(w io.Writer) error {
			return report.JSON(w, export)
		})
	}
	return a.writeFile(dir, report.Filename("2KNOW-user-export", "pdf", a.today()), func(w io.Writer) error {
		return report.UserDataPDF(w, sess, history, a.Now())
	})
}

// ExportSearchReport writes the detailed analysis PDF for keyword. An
// empty keyword means the current result, or the last search.
func (a *App) ExportSearchReport(dir, keyword, region string) (string, error) {
	if keyword == "" {
		if cur, ok := a.Current(); ok {
			keyword, region = cur.Keyword, cur.Region
		} else {
			keyword = a.Session.LastSearch()
		}
	}
	analysis := a.DetailedAnalysis(keyword, region)
	name := report.Filename("2KNOW", "pdf", keyword, regionFileName(analysis.Region), a.today())
	return a.writeFile(dir, name, func(w io.Writer) error {
		return report.SearchReportPDF(w, analysis, a.Now())
	})
}

func regionFileName(region string) string {
	if region == search.DefaultRegion {
		return "Kenya"
	}
	return region
}

// ExportResult writes the current result as PDF or JSON.
func (a *App) ExportResult(dir string, asJSON bool) (string, error) {
	cur, ok := a.Current()
	if !ok {
		a.Notifier.Warning("Nothing to export yet")
		return "", report.ErrNoData
	}
	if asJSON {
		return a.writeFile(dir, report.Filename("2KNOW-trend", "json", cur.Keyword, a.today()), func(w io.Writer) error {
			return report.JSON(w, &cur)
		})
	}
	return a.writeFile(dir, report.Filename("2KNOW-trend", "pdf", cur.Keyword, a.today()), func(w io.Writer) error {
		return report.TrendPDF(w, cur, a.Now())
	})
}

// ExportMarkets writes the currently filtered market directory as JSON.
func (a *App) ExportMarkets(dir string) (string, error) {
	a.mu.Lock()
	list := a.marketList
	a.mu.Unlock()
	return a.writeFile(dir, report.Filename("2know-kenyan-markets", "json", a.today()), func(w io.Writer) error {
		return report.JSON(w, list)
	})
}

// ExportChart writes one chart (trend, comparison1, comparison2 or
// prediction) as a PNG image.
func (a *App) ExportChart(dir, which string) (string, error) {
	var (
		c      charts.Chart
		prefix string
	)
	switch which {
	case "comparison1":
		c, _ = a.Charts.Comparison()
		prefix = "2KNOW-comparison-chart-1"
	case "comparison2":
		_, c = a.Charts.Comparison()
		prefix = "2KNOW-comparison-chart-2"
	case "prediction":
		c = a.Charts.Prediction()
		prefix = "2KNOW-prediction-chart"
	default:
		c = a.Charts.Trend()
		prefix = "2KNOW-trend-chart"
	}
	stamp := a.Now().Format("2006-01-02-15-04-05")
	return a.writeFile(dir, report.Filename(prefix, "png", stamp), func(w io.Writer) error {
		return charts.RenderPNG(w, c)
	})
}
