// Command remind is the interactive reminder shell.
//
// It manages reminders in a local SQLite database, extracts them from
// plain language, images and voice recordings through an AI provider,
// and dispatches notifications while the shell is open.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notadequate/remindd/internal/ai"
	"github.com/notadequate/remindd/internal/config"
	"github.com/notadequate/remindd/internal/intake"
	"github.com/notadequate/remindd/internal/notify"
	"github.com/notadequate/remindd/internal/reminder"
	"github.com/notadequate/remindd/internal/repl"
	"github.com/notadequate/remindd/internal/space"
	"github.com/notadequate/remindd/internal/voice"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	provider := flag.String("provider", "", "AI provider to use (deepseek, ollama)")
	modelName := flag.String("model", "", "Model name (overrides config)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI flag overrides
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *modelName != "" {
		cfg.Model.Name = *modelName
	}
	if *noColor {
		cfg.UI.ColoredOutput = false
	}

	store, err := reminder.NewStore(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	spaces := space.NewStore(store.DB())

	// AI parsing is optional: without a valid provider the shell still
	// works, the AI commands just report the setup problem.
	var parser *ai.Parser
	if err := cfg.Validate(); err == nil {
		providerInstance, err := ai.NewProvider(cfg.GetProviderConfig())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: AI provider unavailable: %v\n", err)
		} else {
			defer providerInstance.Close()
			parser = ai.NewParser(providerInstance, cfg.Model.Name, cfg.Model.MaxTokens, cfg.Model.Temperature)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Warning: AI commands disabled: %v\n", err)
		if cfg.Provider == config.ProviderDeepSeek {
			fmt.Fprintf(os.Stderr, "Tip: Set DEEPSEEK_API_KEY environment variable or add it to config file\n")
		}
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.Notifier.Telegram.BotToken != "" && cfg.Notifier.Telegram.ChatID != "" {
		sender = notify.NewTelegramSender(cfg.Notifier.Telegram.BotToken, cfg.Notifier.Telegram.ChatID)
	}
	dispatcher := notify.NewDispatcher(sender, time.Duration(cfg.Notifier.Interval)*time.Second)

	// A nil *ai.Parser must stay a nil interface inside the form.
	var formParser intake.Parser
	if parser != nil {
		formParser = parser
	}
	form := intake.NewForm(store, dispatcher, formParser)

	var voiceSvc *voice.Service
	var recorder *voice.FileRecorder
	if parser != nil && cfg.Voice.TranscriberURL != "" {
		recorder = voice.NewFileRecorder("")
		transcriber := voice.NewHTTPTranscriber(cfg.Voice.TranscriberURL, cfg.Voice.Language, time.Duration(cfg.Voice.Timeout)*time.Second)
		voiceSvc = voice.NewService(recorder, transcriber, parser)
		defer voiceSvc.Close()
	}

	replInstance, err := repl.NewREPL(cfg, store, spaces, form, dispatcher, voiceSvc, recorder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating REPL: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Notifier.Enabled {
		go func() {
			if err := dispatcher.Run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Notifier stopped: %v\n", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
		replInstance.Stop()
		os.Exit(0)
	}()

	if err := replInstance.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
