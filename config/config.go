package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the backend configuration.
// It is loaded once at startup and read through AppConfig.
type Config struct {
	Environment    string
	Host           string
	Port           string
	DatabaseURL    string
	JWTSecret      string
	JWTExpiry      time.Duration
	AllowedOrigins []string
	SerperAPIKey   string
	GeminiAPIKey   string
	GeminiModel    string
	TrendsCacheTTL time.Duration
	MaxRetries     int
	BackoffBase    time.Duration
	LogLevel       string
}

// AppConfig holds the application-wide configuration
var AppConfig Config

const defaultOrigins = "http://localhost:5500,http://127.0.0.1:5500,http://localhost:3000,http://127.0.0.1:3000,http://127.0.0.1:8000"

// Load reads the backend configuration from the environment. Call
// godotenv.Load first if a .env file should be honoured.
func Load() Config {
	cfg := Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           getEnv("PORT", "8000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      30 * 24 * time.Hour,
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", defaultOrigins)),
		SerperAPIKey:   os.Getenv("SERPER_API_KEY"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		TrendsCacheTTL: time.Duration(getEnvInt("TRENDS_CACHE_TTL", 600)) * time.Second,
		MaxRetries:     getEnvInt("TRENDS_MAX_RETRIES", 3),
		BackoffBase:    time.Duration(getEnvFloat("TRENDS_BACKOFF_BASE", 1.0) * float64(time.Second)),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
	if cfg.SerperAPIKey == "not-set-yet" {
		cfg.SerperAPIKey = ""
	}
	return cfg
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
