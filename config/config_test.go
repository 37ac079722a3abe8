package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TRENDS_CACHE_TTL", "")
	t.Setenv("SERPER_API_KEY", "not-set-yet")

	cfg := Load()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.TrendsCacheTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiry)
	assert.Empty(t, cfg.SerperAPIKey)
	assert.Contains(t, cfg.AllowedOrigins, "http://localhost:3000")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TRENDS_MAX_RETRIES", "5")
	t.Setenv("TRENDS_BACKOFF_BASE", "0.5")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.BackoffBase)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadClientMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadClient(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIURL)
	assert.Equal(t, "KE", cfg.DefaultRegion)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestLoadClientFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twoknow.yml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: https://api.example.com/\ntheme: dark\ndefault_region: Mombasa\n"), 0o644))
	t.Setenv("TWOKNOW_THEME", "ocean")

	cfg, err := LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, "ocean", cfg.Theme)
	assert.Equal(t, "Mombasa", cfg.DefaultRegion)
}

func TestLoadClientRejectsBadURL(t *testing.T) {
	t.Setenv("TWOKNOW_API_URL", "ftp://nope")
	_, err := LoadClient("")
	assert.Error(t, err)
}
