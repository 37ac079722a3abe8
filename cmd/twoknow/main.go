// Command twoknow is the 2KNOW market trend client. It talks to the 2KNOW
// API and keeps its session in a local SQLite file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"twoknow/apiclient"
	"twoknow/config"
	"twoknow/dashboard"
	"twoknow/logging"
	"twoknow/session"
	"twoknow/storage"
	"twoknow/theme"
	"twoknow/view"
)

var (
	// Global flags
	configPath string
	apiURL     string
	logLevel   string

	rt *runtime
)

// runtime is everything a command needs, built once per invocation.
type runtime struct {
	cfg    *config.ClientConfig
	log    *zap.Logger
	kv     storage.Storage
	client *apiclient.Client
	app    *dashboard.App
}

func newRuntime(cfg *config.ClientConfig, kv storage.Storage, log *zap.Logger) *runtime {
	log = logging.OrNop(log)
	store := session.New(kv, log.Named("session"))
	if store.Theme() == "" && cfg.Theme != "" {
		if err := store.SetTheme(cfg.Theme); err != nil {
			log.Warn("saving configured theme failed", zap.Error(err))
		}
	}

	client := apiclient.New(cfg.APIURL, cfg.Timeout, log.Named("api"))
	client.TokenSource = store.Token

	app := dashboard.New(client, store, log)
	app.Start(theme.DetectDark())
	return &runtime{cfg: cfg, log: log, kv: kv, client: client, app: app}
}

func (r *runtime) Close() error {
	_ = r.log.Sync()
	return r.kv.Close()
}

var rootCmd = &cobra.Command{
	Use:   "twoknow",
	Short: "2KNOW - market trend analysis for Kenyan traders",
	Long: `twoknow analyzes how much interest a product draws in Kenyan markets.

Sign in with "twoknow login", then search products, compare them, browse the
market directory and export reports. Run "twoknow dashboard" for the
interactive terminal dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadClient(configPath)
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.APIURL = apiURL
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		log, err := logging.NewClient(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		kv, err := storage.OpenSQLite(cfg.StoragePath)
		if err != nil {
			return fmt.Errorf("opening local storage: %w", err)
		}
		rt = newRuntime(cfg, kv, log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "2KNOW API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(searchCmd, compareCmd, historyCmd, insightCmd, analyzeCmd)
	rootCmd.AddCommand(marketsCmd, exportCmd, settingsCmd, healthCmd, dashboardCmd)
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "twoknow.yaml"
	}
	return dir + "/twoknow/config.yaml"
}

// commandContext is cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func printToasts(w io.Writer, toasts []view.Toast) {
	for _, t := range toasts {
		fmt.Fprintf(w, "[%s] %s\n", t.Level, t.Message)
	}
}

// finish prints queued notifications and closes local storage. It runs
// after every command, including failed ones.
func finish(w io.Writer) {
	if rt == nil {
		return
	}
	printToasts(w, rt.app.Notifier.Drain())
	_ = rt.Close()
	rt = nil
}

func main() {
	err := rootCmd.Execute()
	finish(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
