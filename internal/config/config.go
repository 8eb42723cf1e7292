package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Canvas CanvasConfig `koanf:"canvas"`
	Window WindowConfig `koanf:"window"`
	UI     UIConfig     `koanf:"ui"`
	Log    LogConfig    `koanf:"log"`

	// Flat keys from the documented config file format. Migrated into
	// the canvas section after load.
	FlatBaseURL string `koanf:"canvas_base_url"`
	FlatToken   string `koanf:"canvas_token"`
}

type CanvasConfig struct {
	BaseURL string `koanf:"base_url"`
	Token   string `koanf:"token"`
	Timeout int    `koanf:"timeout"`  // seconds, per request
	PerPage int    `koanf:"per_page"` // page size for list endpoints
}

type WindowConfig struct {
	PastDays   int  `koanf:"past_days"`
	FutureDays int  `koanf:"future_days"`
	ClampToNow bool `koanf:"clamp_to_now"` // lower bound is "now" instead of now-past_days
}

type UIConfig struct {
	ColoredOutput bool   `koanf:"colored_output"`
	Timezone      string `koanf:"timezone"` // reference timezone for all due dates
}

type LogConfig struct {
	File       string `koanf:"file"`
	Level      string `koanf:"level"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("CANVAS_", ".", func(s string) string {
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Credentials from the environment win over the file.
	if token := os.Getenv("CANVAS_TOKEN"); token != "" {
		k.Set("canvas.token", token)
	}
	if baseURL := os.Getenv("CANVAS_BASE_URL"); baseURL != "" {
		k.Set("canvas.base_url", baseURL)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The documented file format uses flat canvas_base_url/canvas_token.
	if cfg.Canvas.BaseURL == "" && cfg.FlatBaseURL != "" {
		cfg.Canvas.BaseURL = cfg.FlatBaseURL
	}
	if cfg.Canvas.Token == "" && cfg.FlatToken != "" {
		cfg.Canvas.Token = cfg.FlatToken
	}

	cfg.Canvas.BaseURL = strings.TrimRight(cfg.Canvas.BaseURL, "/")
	cfg.Log.File = expandPath(cfg.Log.File)

	return &cfg, nil
}

// Configured reports whether Canvas credentials are present. The
// application starts without them but idles with a notice.
func (c *Config) Configured() bool {
	return c.Canvas.BaseURL != "" && c.Canvas.Token != ""
}

func (c *Config) Validate() error {
	if c.Canvas.Timeout <= 0 {
		return fmt.Errorf("canvas.timeout must be positive")
	}

	if c.Canvas.PerPage <= 0 {
		return fmt.Errorf("canvas.per_page must be positive")
	}

	if c.Window.PastDays < 0 || c.Window.FutureDays < 0 {
		return fmt.Errorf("window days must not be negative")
	}

	if c.UI.Timezone == "" {
		return fmt.Errorf("ui.timezone is required")
	}

	return nil
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
