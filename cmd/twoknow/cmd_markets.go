package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"twoknow/markets"
)

var (
	marketRegion string
	marketType   string
)

var marketsCmd = &cobra.Command{
	Use:   "markets [search]",
	Short: "Browse the Kenyan market directory",
	Example: `  twoknow markets --region Nairobi
  twoknow markets phones --type electronics
  twoknow markets analyze "Gikomba Market"`,
	RunE: runMarkets,
}

var marketsAnalyzeCmd = &cobra.Command{
	Use:   "analyze [market name]",
	Short: "Analyze the main product of a market in its region",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		name := strings.Join(args, " ")
		if m, ok := markets.Find(name); ok {
			fmt.Fprintln(cmd.OutOrStdout(), markets.Insight(m))
		}
		v, err := rt.app.AnalyzeMarket(ctx, name)
		if err != nil {
			return err
		}
		printDashboard(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	marketsCmd.Flags().StringVar(&marketRegion, "region", "", "Filter by region: "+strings.Join(markets.Regions(), ", "))
	marketsCmd.Flags().StringVar(&marketType, "type", "", "Filter by type: "+strings.Join(markets.Types(), ", "))
	marketsCmd.AddCommand(marketsAnalyzeCmd)
}

func runMarkets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	list := rt.app.FilterMarkets(strings.Join(args, " "), marketRegion, marketType)
	fmt.Fprintln(out, markets.ResultsLabel(len(list)))
	for _, m := range list {
		fmt.Fprintf(out, "\n%s  [%s, %s]  %d%% popular\n", m.Name, m.Region, markets.TypeLabel(m.Type), m.Popularity)
		fmt.Fprintf(out, "  %s\n", m.Description)
		fmt.Fprintf(out, "  Products: %s\n", strings.Join(m.Products, ", "))
		if m.Hours != "" {
			fmt.Fprintf(out, "  Hours: %s\n", m.Hours)
		}
	}
	return nil
}
