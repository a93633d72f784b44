package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"provider": "deepseek",
		"deepseek": map[string]interface{}{
			"api_key":  "",
			"base_url": "https://api.deepseek.com",
			"timeout":  120,
		},
		"ollama": map[string]interface{}{
			"base_url":     "http://localhost:11434",
			"timeout":      120,
			"vision_model": "llava",
		},
		"model": map[string]interface{}{
			"name":        "deepseek-chat",
			"max_tokens":  4096,
			"temperature": 0.2,
		},
		"storage": map[string]interface{}{
			"db_path": "~/.remindd/reminders.db",
		},
		"notifier": map[string]interface{}{
			"enabled":  false,
			"interval": 30,
			"telegram": map[string]interface{}{
				"bot_token": "",
				"chat_id":   "",
			},
		},
		"voice": map[string]interface{}{
			"transcriber_url": "http://localhost:8080/inference",
			"language":        "en",
			"timeout":         120,
		},
		"ui": map[string]interface{}{
			"colored_output": true,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.remindd/config.yaml"
}
