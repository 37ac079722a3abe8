package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"twoknow/config"
	"twoknow/database"
	"twoknow/handlers"
	"twoknow/logging"
	"twoknow/routes"
	"twoknow/services/trends"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const devJWTSecret = "dev-secret-change-me"

func main() {
	// Load .env file
	envErr := godotenv.Load()

	config.AppConfig = config.Load()
	cfg := config.AppConfig

	log, err := logging.New(cfg.LogLevel, !cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if envErr != nil {
		log.Info("no .env file loaded, using environment variables")
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			log.Fatal("JWT_SECRET is not set")
		}
		log.Warn("JWT_SECRET is not set, using the development secret")
		config.AppConfig.JWTSecret = devJWTSecret
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	if cfg.DatabaseURL != "" {
		if err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer database.Close()
		log.Info("connected to postgres")
	} else {
		log.Warn("DATABASE_URL is not set, accounts are kept in memory")
	}

	metrics := trends.NewMetrics()
	historical := trends.NewHistoricalSource(nil, trends.NewCache(cfg.TrendsCacheTTL, metrics), cfg.MaxRetries, cfg.BackoffBase, log.Named("historical"))
	handlers.TrendService = trends.NewService(trends.NewSerperClient(cfg.SerperAPIKey, log.Named("serper")), historical, log.Named("trends"))

	app := routes.NewApp(log)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		_ = app.Shutdown()
	}()

	log.Info("starting 2KNOW API", zap.String("addr", cfg.Addr()), zap.String("environment", cfg.Environment))
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
