package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Provider type constants (duplicated from ai package to avoid import cycle)
const (
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
)

type Config struct {
	Provider string         `koanf:"provider"`
	DeepSeek DeepSeekConfig `koanf:"deepseek"`
	Ollama   OllamaConfig   `koanf:"ollama"`
	Model    ModelConfig    `koanf:"model"`
	Storage  StorageConfig  `koanf:"storage"`
	Notifier NotifierConfig `koanf:"notifier"`
	Voice    VoiceConfig    `koanf:"voice"`
	UI       UIConfig       `koanf:"ui"`
}

type DeepSeekConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"`
}

type OllamaConfig struct {
	BaseURL     string `koanf:"base_url"`
	Timeout     int    `koanf:"timeout"`
	VisionModel string `koanf:"vision_model"` // multimodal model used for image parsing
}

type ModelConfig struct {
	Name        string  `koanf:"name"`
	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`
}

type StorageConfig struct {
	DBPath string `koanf:"db_path"`
}

type NotifierConfig struct {
	Enabled  bool           `koanf:"enabled"`
	Interval int            `koanf:"interval"` // seconds between dispatch ticks
	Telegram TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
}

type VoiceConfig struct {
	TranscriberURL string `koanf:"transcriber_url"` // whisper-server style endpoint
	Language       string `koanf:"language"`
	Timeout        int    `koanf:"timeout"`
}

type UIConfig struct {
	ColoredOutput bool `koanf:"colored_output"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	// REMIND_MODEL_NAME -> model.name. Leaf keys with underscores
	// (max_tokens, db_path) cannot be addressed this way; the well-known
	// vars below cover the ones that matter.
	if err := k.Load(env.Provider("REMIND_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "REMIND_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Well-known env vars override whatever the file said
	if apiKey := os.Getenv("DEEPSEEK_API_KEY"); apiKey != "" {
		k.Set("deepseek.api_key", apiKey)
	}
	if botToken := os.Getenv("TELEGRAM_BOT_TOKEN"); botToken != "" {
		k.Set("notifier.telegram.bot_token", botToken)
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		k.Set("notifier.telegram.chat_id", chatID)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderDeepSeek:
		if c.DeepSeek.APIKey == "" {
			return fmt.Errorf("DeepSeek API key is required (set DEEPSEEK_API_KEY or add to config file)")
		}
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			c.Ollama.BaseURL = "http://localhost:11434"
		}
	default:
		return fmt.Errorf("unknown provider: %s (supported: %s, %s)",
			c.Provider, ProviderDeepSeek, ProviderOllama)
	}

	if c.Model.Name == "" {
		return fmt.Errorf("model name is required")
	}

	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}

	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage db_path is required")
	}

	if c.Notifier.Enabled && c.Notifier.Interval <= 0 {
		return fmt.Errorf("notifier interval must be positive")
	}

	return nil
}

// ProviderConfig contains provider-specific configuration for the ai package.
type ProviderConfig struct {
	Type     string
	DeepSeek DeepSeekConfig
	Ollama   OllamaConfig
	Model    ModelSettings
}

// ModelSettings contains model parameters used by all providers.
type ModelSettings struct {
	Name        string
	MaxTokens   int
	Temperature float64
}

// GetProviderConfig returns the provider configuration for the ai package.
func (c *Config) GetProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		Type:     c.Provider,
		DeepSeek: c.DeepSeek,
		Ollama:   c.Ollama,
		Model: ModelSettings{
			Name:        c.Model.Name,
			MaxTokens:   c.Model.MaxTokens,
			Temperature: c.Model.Temperature,
		},
	}
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
