package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv shields tests from credentials in the real environment.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CANVAS_TOKEN", "")
	t.Setenv("CANVAS_BASE_URL", "")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Configured() {
		t.Error("expected unconfigured without credentials")
	}
	if cfg.Canvas.Timeout != 10 {
		t.Errorf("timeout = %d, want 10", cfg.Canvas.Timeout)
	}
	if cfg.Canvas.PerPage != 50 {
		t.Errorf("per_page = %d, want 50", cfg.Canvas.PerPage)
	}
	if cfg.Window.PastDays != 30 || cfg.Window.FutureDays != 30 {
		t.Errorf("window = %d/%d, want 30/30", cfg.Window.PastDays, cfg.Window.FutureDays)
	}
	if !cfg.Window.ClampToNow {
		t.Error("clamp_to_now should default to true")
	}
	if cfg.UI.Timezone != "Asia/Manila" {
		t.Errorf("timezone = %q, want Asia/Manila", cfg.UI.Timezone)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_FlatFileFormat(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{
		"canvas_base_url": "https://canvas.example.edu/",
		"canvas_token": "tok123"
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.Configured() {
		t.Fatal("expected configured")
	}
	if cfg.Canvas.BaseURL != "https://canvas.example.edu" {
		t.Errorf("base URL = %q, trailing slash should be stripped", cfg.Canvas.BaseURL)
	}
	if cfg.Canvas.Token != "tok123" {
		t.Errorf("token = %q", cfg.Canvas.Token)
	}
}

func TestLoad_StructuredSectionWins(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{
		"canvas_base_url": "https://flat.example.edu",
		"canvas": {
			"base_url": "https://structured.example.edu",
			"token": "tok",
			"timeout": 20
		}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Canvas.BaseURL != "https://structured.example.edu" {
		t.Errorf("base URL = %q, structured section should win", cfg.Canvas.BaseURL)
	}
	if cfg.Canvas.Timeout != 20 {
		t.Errorf("timeout = %d, want 20", cfg.Canvas.Timeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"canvas_base_url": "https://file.example.edu",
		"canvas_token": "file-token"
	}`)

	t.Setenv("CANVAS_TOKEN", "env-token")
	t.Setenv("CANVAS_BASE_URL", "https://env.example.edu")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Canvas.Token != "env-token" {
		t.Errorf("token = %q, env should win", cfg.Canvas.Token)
	}
	if cfg.Canvas.BaseURL != "https://env.example.edu" {
		t.Errorf("base URL = %q, env should win", cfg.Canvas.BaseURL)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Configured() {
		t.Error("expected unconfigured")
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.Canvas.Timeout = 0 }},
		{"zero per_page", func(c *Config) { c.Canvas.PerPage = 0 }},
		{"negative window", func(c *Config) { c.Window.FutureDays = -1 }},
		{"empty timezone", func(c *Config) { c.UI.Timezone = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
