package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ClientConfig configures the dashboard client (CLI and terminal UI).
type ClientConfig struct {
	APIURL        string        `koanf:"api_url"`
	StoragePath   string        `koanf:"storage_path"`
	Timeout       time.Duration `koanf:"timeout"`
	DefaultRegion string        `koanf:"default_region"`
	Theme         string        `koanf:"theme"`
	LogLevel      string        `koanf:"log_level"`
	ExportDir     string        `koanf:"export_dir"`
}

// DefaultClientConfig returns the built-in client defaults.
func DefaultClientConfig() *ClientConfig {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return &ClientConfig{
		APIURL:        "http://127.0.0.1:8000",
		StoragePath:   filepath.Join(dir, "twoknow", "storage.db"),
		Timeout:       15 * time.Second,
		DefaultRegion: "KE",
		Theme:         "light",
		LogLevel:      "warn",
		ExportDir:     ".",
	}
}

// LoadClient reads the client configuration from the given YAML file, then
// overlays TWOKNOW_* environment variables (TWOKNOW_API_URL -> api_url).
// A missing file is not an error.
func LoadClient(path string) (*ClientConfig, error) {
	k := koanf.New(".")
	cfg := DefaultClientConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("TWOKNOW_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TWOKNOW_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration contains usable values.
func (c *ClientConfig) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("invalid api_url %q: must start with http:// or https://", c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.DefaultRegion == "" {
		c.DefaultRegion = "KE"
	}
	return nil
}
