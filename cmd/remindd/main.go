// Command remindd is the notification daemon.
//
// It watches the reminder database and delivers notifications through
// Telegram when reminders and their time slots come due. The database
// is re-read periodically so changes made by the remind shell or the
// MCP server are picked up without restarting the daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notadequate/remindd/internal/config"
	"github.com/notadequate/remindd/internal/notify"
	"github.com/notadequate/remindd/internal/reminder"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	store, err := reminder.NewStore(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var sender notify.Sender = notify.LogSender{}
	if cfg.Notifier.Telegram.BotToken != "" && cfg.Notifier.Telegram.ChatID != "" {
		sender = notify.NewTelegramSender(cfg.Notifier.Telegram.BotToken, cfg.Notifier.Telegram.ChatID)
	} else {
		log.Printf("[remindd] no telegram credentials, notifications go to the log")
	}

	interval := time.Duration(cfg.Notifier.Interval) * time.Second
	dispatcher := notify.NewDispatcher(sender, interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("[remindd] received %v, shutting down", sig)
		cancel()
	}()

	if err := resync(store, dispatcher); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading reminders: %v\n", err)
		os.Exit(1)
	}

	go resyncLoop(ctx, store, dispatcher)

	log.Printf("[remindd] watching %s", cfg.Storage.DBPath)
	if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Dispatcher error: %v\n", err)
		os.Exit(1)
	}
}

// resync replaces the dispatcher's schedule with the current database
// contents. ScheduleReminder drops occurrences of reminders that were
// completed or had notifications turned off since the last pass.
func resync(store *reminder.Store, dispatcher *notify.Dispatcher) error {
	reminders, err := store.List(reminder.Filter{})
	if err != nil {
		return err
	}

	alive := make(map[int64]bool, len(reminders))
	for i := range reminders {
		alive[reminders[i].ID] = true
		if err := dispatcher.ScheduleReminder(&reminders[i]); err != nil {
			return fmt.Errorf("failed to schedule reminder %d: %w", reminders[i].ID, err)
		}
	}

	// Drop occurrences for reminders deleted since the last pass.
	for _, id := range dispatcher.ScheduledReminders() {
		if !alive[id] {
			dispatcher.CancelReminder(id)
		}
	}
	return nil
}

func resyncLoop(ctx context.Context, store *reminder.Store, dispatcher *notify.Dispatcher) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := resync(store, dispatcher); err != nil {
				log.Printf("[remindd] resync failed: %v", err)
			}
		}
	}
}
