package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"twoknow/theme"
	"twoknow/tui"
)

var (
	settingsTheme  string
	settingsRegion string
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"theme"},
	Short:   "Show or change the theme and default region",
	Example: `  twoknow settings
  twoknow theme --theme ocean --region Mombasa`,
	RunE: runSettings,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the 2KNOW API is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		h, err := rt.client.Health(ctx)
		if err != nil {
			return fmt.Errorf("API at %s is unavailable: %w", rt.cfg.APIURL, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (database: %s) at %s\n", h.Service, h.Status, h.Database, h.Timestamp)
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return tui.Run(ctx, rt.app, rt.cfg.ExportDir)
	},
}

func init() {
	settingsCmd.Flags().StringVar(&settingsTheme, "theme", "", "Theme: light, dark, auto, purple, ocean, forest or sunset")
	settingsCmd.Flags().StringVar(&settingsRegion, "region", "", "Default search region")
}

func runSettings(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if settingsTheme != "" || settingsRegion != "" {
		name := settingsTheme
		if name == "" {
			name = string(rt.app.Theme.Active())
		}
		region := settingsRegion
		if region == "" {
			region = rt.app.Session.Region()
		}
		if err := rt.app.SaveSettings(name, region); err != nil {
			return err
		}
	}

	active := rt.app.Theme.Active()
	p := rt.app.Theme.Palette()
	st := rt.app.Theme.Styles()
	fmt.Fprintf(out, "Theme:  %s", st.Title.Render(string(active)))
	if active == theme.Auto {
		fmt.Fprintf(out, " (following system: %s)", p.Name)
	}
	fmt.Fprintf(out, "\nRegion: %s\n", rt.app.Session.Region())
	return nil
}
