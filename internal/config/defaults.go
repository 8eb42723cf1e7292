package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"canvas": map[string]interface{}{
			"base_url": "",
			"token":    "",
			"timeout":  10,
			"per_page": 50,
		},
		"window": map[string]interface{}{
			"past_days":    30,
			"future_days":  30,
			"clamp_to_now": true, // hide past-due items, matching upstream behavior
		},
		"ui": map[string]interface{}{
			"colored_output": true,
			"timezone":       "Asia/Manila",
		},
		"log": map[string]interface{}{
			"file":         "~/.config/canvas-tui/canvas-tui.log",
			"level":        "info",
			"max_size_mb":  10,
			"max_backups":  3,
			"max_age_days": 30,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.config/canvas-tui/config.json"
}
