package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ProviderDeepSeek, cfg.Provider)
	require.Equal(t, "deepseek-chat", cfg.Model.Name)
	require.Equal(t, 4096, cfg.Model.MaxTokens)
	require.False(t, cfg.Notifier.Enabled)
	require.Equal(t, 30, cfg.Notifier.Interval)
	require.Equal(t, "llava", cfg.Ollama.VisionModel)
	require.True(t, cfg.UI.ColoredOutput)
	require.NotEmpty(t, cfg.Storage.DBPath)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `provider: ollama
model:
  name: llama3
storage:
  db_path: /tmp/test-reminders.db
notifier:
  enabled: true
  interval: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ProviderOllama, cfg.Provider)
	require.Equal(t, "llama3", cfg.Model.Name)
	require.Equal(t, "/tmp/test-reminders.db", cfg.Storage.DBPath)
	require.True(t, cfg.Notifier.Enabled)
	require.Equal(t, 10, cfg.Notifier.Interval)

	// Untouched sections keep their defaults.
	require.Equal(t, 4096, cfg.Model.MaxTokens)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "sk-from-env")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "sk-from-env", cfg.DeepSeek.APIKey)
	require.Equal(t, "bot-token", cfg.Notifier.Telegram.BotToken)
	require.Equal(t, "12345", cfg.Notifier.Telegram.ChatID)
}

func TestLoadRemindPrefixEnvOverrides(t *testing.T) {
	t.Setenv("REMIND_PROVIDER", "ollama")
	t.Setenv("REMIND_MODEL_NAME", "llama3")
	t.Setenv("REMIND_VOICE_LANGUAGE", "ru")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ProviderOllama, cfg.Provider)
	require.Equal(t, "llama3", cfg.Model.Name)
	require.Equal(t, "ru", cfg.Voice.Language)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: deepseek\n"), 0o644))

	t.Setenv("REMIND_PROVIDER", "ollama")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ProviderOllama, cfg.Provider)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		cfg.DeepSeek.APIKey = "sk-test"
		return cfg
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.DeepSeek.APIKey = ""
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Provider = "openai"
	require.ErrorContains(t, cfg.Validate(), "unknown provider")

	cfg = base()
	cfg.Model.Temperature = 3
	require.ErrorContains(t, cfg.Validate(), "temperature")

	cfg = base()
	cfg.Notifier.Enabled = true
	cfg.Notifier.Interval = 0
	require.ErrorContains(t, cfg.Validate(), "interval")

	// Ollama needs no API key, and an empty base URL falls back.
	cfg = base()
	cfg.Provider = ProviderOllama
	cfg.Ollama.BaseURL = ""
	require.NoError(t, cfg.Validate())
	require.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
}
