package repl

import (
	"context"
	"fmt"

	"github.com/notadequate/remindd/internal/config"
	"github.com/notadequate/remindd/internal/intake"
	"github.com/notadequate/remindd/internal/notify"
	"github.com/notadequate/remindd/internal/reminder"
	"github.com/notadequate/remindd/internal/space"
	"github.com/notadequate/remindd/internal/ui"
	"github.com/notadequate/remindd/internal/voice"

	"github.com/chzyer/readline"
)

type REPL struct {
	config    *config.Config
	store     *reminder.Store
	spaces    *space.Store
	form      *intake.Form
	notifier  notify.Service
	voice     *voice.Service
	recorder  *voice.FileRecorder
	rl        *readline.Instance
	formatter *ui.Formatter
}

// NewREPL wires the interactive shell. The voice service and recorder
// may be nil when voice capture is not configured.
func NewREPL(cfg *config.Config, store *reminder.Store, spaces *space.Store, form *intake.Form, notifier notify.Service, voiceSvc *voice.Service, recorder *voice.FileRecorder) (*REPL, error) {
	rl, err := setupReadline()
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	return &REPL{
		config:    cfg,
		store:     store,
		spaces:    spaces,
		form:      form,
		notifier:  notifier,
		voice:     voiceSvc,
		recorder:  recorder,
		rl:        rl,
		formatter: ui.NewFormatter(cfg.UI.ColoredOutput),
	}, nil
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	r.displayWelcome()

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		isCommand, command, args := r.parseCommand(input)
		if !isCommand {
			r.displayInfo("Commands start with /. Try /help.")
			continue
		}

		if err := r.handleCommand(ctx, command, args); err != nil {
			r.displayError(err)
		}

		if command == "/quit" || command == "/exit" || command == "/q" {
			return nil
		}
	}
}

func (r *REPL) Stop() {
	r.rl.Close()
}

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/add":
		return r.handleAdd(ctx, args)

	case "/list", "/ls":
		return r.handleList(args)

	case "/due":
		return r.handleDue()

	case "/show":
		return r.handleShow(args)

	case "/done", "/toggle":
		return r.handleToggle(args)

	case "/undone", "/all-undone":
		return r.handleReopen(args)

	case "/all-done":
		return r.handleComplete(args)

	case "/slot":
		return r.handleSlot(args)

	case "/ai":
		return r.handleAIText(ctx, args)

	case "/ai-image":
		return r.handleAIImage(ctx, args)

	case "/voice":
		return r.handleVoice(ctx, args)

	case "/spaces":
		return r.handleSpaces()

	case "/space":
		return r.handleSpace(args)

	case "/delete", "/rm":
		return r.handleDelete(args)

	case "/countdown":
		return r.handleCountdown(args)

	case "/quit", "/exit", "/q":
		fmt.Println("\nGoodbye!")
		return nil

	default:
		return fmt.Errorf("unknown command: %s (try /help)", command)
	}
}
