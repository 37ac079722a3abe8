package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"twoknow/charts"
	"twoknow/search"
	"twoknow/view"
)

var (
	searchRegion string
	searchMonths int
)

var searchCmd = &cobra.Command{
	Use:   "search [product]",
	Short: "Analyze the market potential of a product",
	Example: `  twoknow search "sukuma wiki"
  twoknow search maize --region Nakuru --months 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var compareCmd = &cobra.Command{
	Use:     "compare [product1] [product2]",
	Short:   "Compare two products side by side",
	Example: `  twoknow compare maize beans`,
	Args:    cobra.ExactArgs(2),
	RunE:    runCompare,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches and the trend prediction",
	RunE:  runHistory,
}

var insightCmd = &cobra.Command{
	Use:   "insight [product]",
	Short: "Ask the AI assistant for a market narrative",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInsight,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [product]",
	Short: "Show the detailed analysis with recommendations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, insightCmd, analyzeCmd} {
		c.Flags().StringVarP(&searchRegion, "region", "r", "", "Region, e.g. Nairobi (default: your saved region)")
	}
	searchCmd.Flags().IntVarP(&searchMonths, "months", "m", 0, "Only chart the last N months")
}

// region resolves the region flag against the saved and configured
// defaults.
func region() string {
	if searchRegion != "" {
		return searchRegion
	}
	r := rt.app.Session.Region()
	if r == search.DefaultRegion && rt.cfg.DefaultRegion != "" {
		return rt.cfg.DefaultRegion
	}
	return r
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	v, err := rt.app.Search(ctx, strings.Join(args, " "), region())
	if err != nil {
		return err
	}
	if searchMonths > 0 {
		rt.app.SetChartRange(searchMonths)
	}
	printDashboard(cmd.OutOrStdout(), v)
	return nil
}

func printDashboard(w io.Writer, v view.DashboardView) {
	fmt.Fprintf(w, "%s (%s)\n", v.Keyword, v.RegionName)
	if v.Demo {
		fmt.Fprintln(w, "  * demo data, live analysis unavailable")
	}
	fmt.Fprintf(w, "  Live trend score: %.0f (%s)\n", v.LiveScore, v.Indicator.Label)
	fmt.Fprintf(w, "  Overall score:    %.0f\n", v.OverallScore)
	fmt.Fprintf(w, "  Sector:           %s [%s]\n", v.Sector, strings.Join(v.Tags, ", "))
	fmt.Fprintf(w, "  Hot markets:      %d\n", v.HotMarkets)
	for _, m := range v.Markets {
		fmt.Fprintf(w, "    - %s (%s)\n", m.Name, m.Tag)
	}

	trend := rt.app.Charts.Trend()
	if len(trend.Values) > 0 {
		fmt.Fprintf(w, "  %s  %s\n", charts.Sparkline(trend.Values, 24), strings.Join([]string{trend.Labels[0], trend.Labels[len(trend.Labels)-1]}, " .. "))
	}
	if s, ok := rt.app.Stats(); ok {
		fmt.Fprintf(w, "  Peak %d, average %d, %s\n", s.Peak, s.Average, s.Direction)
	}
	for _, in := range v.Insights {
		fmt.Fprintf(w, "  %s: %s\n", in.Title, in.Description)
	}
	if v.DataSource != "" {
		fmt.Fprintf(w, "  Source: %s\n", v.DataSource)
	}
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	summary, err := rt.app.Compare(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	cmp, _, _ := rt.app.Comparison()
	for _, p := range []struct {
		name  string
		score float64
		trend search.Band
	}{
		{cmp.Product1.Keyword, cmp.Product1.OverallScore, summary.Trend1},
		{cmp.Product2.Keyword, cmp.Product2.OverallScore, summary.Trend2},
	} {
		fmt.Fprintf(out, "%-20s %5.0f  %s\n", p.name, p.score, p.trend.Label)
	}
	fmt.Fprintln(out, summary.Text)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	items := rt.app.History()
	if len(items) == 0 {
		fmt.Fprintln(out, "No searches yet.")
		return nil
	}
	for _, h := range items {
		fmt.Fprintf(out, "%-24s %5.0f  %-14s %-12s %s\n", h.Keyword, h.Score, h.RegionName, h.Sector, h.When)
	}
	if p, ok := rt.app.Prediction(); ok {
		fmt.Fprintf(out, "\nLatest %q scored %.0f, history average %d: %s\n", p.LastSearch, p.LastScore, p.AverageScore, p.Trend)
	}
	return nil
}

func runInsight(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	keyword := strings.Join(args, " ")
	resp, err := rt.client.Insight(ctx, rt.app.Session.Token(), keyword, region())
	if err != nil {
		rt.log.Warn("insight request failed", zap.String("keyword", keyword), zap.Error(err))
		return fmt.Errorf("AI insight unavailable: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", resp.Keyword, resp.Summary)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a := rt.app.DetailedAnalysis(strings.Join(args, " "), region())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s in %s\n", a.Keyword, search.RegionName(a.Region))
	fmt.Fprintf(out, "  Overall score: %d  Trend: %s\n", a.OverallScore, a.Trend)
	fmt.Fprintf(out, "  Competition: %s  Risk: %s\n", a.Competition, a.Risk)
	fmt.Fprintf(out, "  Sectors: %s\n", strings.Join(a.Sectors, ", "))
	fmt.Fprintf(out, "  Regions: %s\n", strings.Join(a.Regions, ", "))
	fmt.Fprintf(out, "  Forecast: 30d %d%%, 90d %d%%, 1y %d%%\n", a.ShortTerm, a.MediumTerm, a.LongTerm)
	fmt.Fprintln(out, "  Recommendations:")
	for _, r := range a.Recommendations {
		fmt.Fprintf(out, "    - %s\n", r)
	}
	return nil
}
