package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"twoknow/view"
)

var (
	exportDir    string
	exportJSON   bool
	exportRegion string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reports, data and charts",
}

var exportProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Export your profile and search history (PDF, or JSON with --json)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(dir string) (string, error) {
			return rt.app.ExportUserData(dir, exportJSON)
		})
	},
}

var exportReportCmd = &cobra.Command{
	Use:   "report [product]",
	Short: "Export the detailed search report as PDF",
	Long: `Exports the detailed analysis PDF for a product. Without a product the
last search result is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(dir string) (string, error) {
			return rt.app.ExportSearchReport(dir, strings.Join(args, " "), exportRegion)
		})
	},
}

var exportResultCmd = &cobra.Command{
	Use:   "result [product]",
	Short: "Export a trend result (PDF, or JSON with --json)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if _, err := rt.app.Search(ctx, strings.Join(args, " "), exportRegion); err != nil {
				return err
			}
		}
		return runExport(cmd, func(dir string) (string, error) {
			return rt.app.ExportResult(dir, exportJSON)
		})
	},
}

var exportMarketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "Export the market directory as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(dir string) (string, error) {
			return rt.app.ExportMarkets(dir)
		})
	},
}

var exportChartCmd = &cobra.Command{
	Use:       "chart [trend|comparison1|comparison2|prediction]",
	Short:     "Export a chart as PNG",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"trend", "comparison1", "comparison2", "prediction"},
	RunE: func(cmd *cobra.Command, args []string) error {
		which := "trend"
		if len(args) == 1 {
			which = args[0]
		}
		switch {
		case strings.HasPrefix(which, "comparison"):
			// Showing trends loads the saved comparison into the charts.
			_ = rt.app.Views.Show(view.SectionTrends)
		case which == "trend":
			if err := redrawLastSearch(cmd); err != nil {
				return err
			}
		}
		return runExport(cmd, func(dir string) (string, error) {
			return rt.app.ExportChart(dir, which)
		})
	},
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportDir, "dir", "d", "", "Output directory (default: export_dir from config)")
	exportProfileCmd.Flags().BoolVar(&exportJSON, "json", false, "Write JSON instead of PDF")
	exportResultCmd.Flags().BoolVar(&exportJSON, "json", false, "Write JSON instead of PDF")
	for _, c := range []*cobra.Command{exportReportCmd, exportResultCmd} {
		c.Flags().StringVarP(&exportRegion, "region", "r", "", "Region")
	}
	exportCmd.AddCommand(exportProfileCmd, exportReportCmd, exportResultCmd, exportMarketsCmd, exportChartCmd)
}

func runExport(cmd *cobra.Command, export func(dir string) (string, error)) error {
	dir := exportDir
	if dir == "" {
		dir = rt.cfg.ExportDir
	}
	path, err := export(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
	return nil
}

// redrawLastSearch repeats the last search so its chart can be exported
// from a fresh process.
func redrawLastSearch(cmd *cobra.Command) error {
	if _, ok := rt.app.Current(); ok {
		return nil
	}
	last := rt.app.Session.LastSearch()
	if last == "" {
		return nil
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	_, err := rt.app.Search(ctx, last, "")
	return err
}
