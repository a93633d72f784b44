// Package intake builds reminders from the different input modes
// (manual entry, AI text, AI image, voice) through one common
// construction path, and orchestrates persistence and notification
// side effects.
package intake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notadequate/remindd/internal/ai"
	"github.com/notadequate/remindd/internal/notify"
	"github.com/notadequate/remindd/internal/reminder"
)

// Source is the tagged union of reminder input modes.
type Source interface {
	isSource()
}

// ManualInput carries a fully user-specified draft.
type ManualInput struct {
	Title                string
	Description          string
	ScheduledTime        time.Time
	Repeat               string
	Custom               *reminder.CustomInterval
	MultiTime            bool
	Slots                []reminder.TimeSlot
	NotificationsEnabled bool
	SpaceID              *int64
}

// AITextInput asks the AI parser to extract reminders from free text.
type AITextInput struct {
	Text string
}

// AIImageInput asks the AI parser to extract reminders from an image.
type AIImageInput struct {
	Data   []byte
	Prompt string
}

// VoiceInput carries reminders already parsed by the voice pipeline.
type VoiceInput struct {
	Reminders []reminder.Reminder
}

func (ManualInput) isSource()  {}
func (AITextInput) isSource()  {}
func (AIImageInput) isSource() {}
func (VoiceInput) isSource()   {}

// Store is the persistence surface the form needs.
type Store interface {
	Add(r reminder.Reminder) (*reminder.Reminder, error)
	GetByID(id int64) (*reminder.Reminder, error)
	UpdateStatus(id int64, status string) error
	UpdateSlotStatus(reminderID int64, slotID, status string) error
}

// Parser is the AI surface the form needs. *ai.Parser satisfies it.
type Parser interface {
	ParseText(ctx context.Context, text string) (*ai.ParseResult, error)
	ParseImage(ctx context.Context, imageData []byte, prompt string) (*ai.ParseResult, error)
	Status() ai.ProviderStatus
	ImageStatus() ai.ProviderStatus
}

// Form turns input sources into persisted reminders. One AI request is
// in flight at a time per form; a second request is rejected, not queued.
type Form struct {
	store    Store
	notifier notify.Service
	parser   Parser

	mu   sync.Mutex
	busy bool
}

// ErrBusy is returned when an AI parse is already in flight.
var ErrBusy = fmt.Errorf("a generation request is already in progress")

// NewForm creates a form over the given collaborators. parser may be nil
// when no AI provider is configured; AI sources then report a setup
// error.
func NewForm(store Store, notifier notify.Service, parser Parser) *Form {
	return &Form{store: store, notifier: notifier, parser: parser}
}

// Drafts resolves a source into candidate reminders. The confidence is 1
// for manual and voice input (voice confidence was already applied when
// the pipeline parsed the transcript).
func (f *Form) Drafts(ctx context.Context, src Source) ([]reminder.Reminder, float64, error) {
	switch s := src.(type) {
	case ManualInput:
		return []reminder.Reminder{buildManual(s)}, 1, nil

	case AITextInput:
		result, err := f.parse(ctx, func(p Parser) (*ai.ParseResult, error) {
			return p.ParseText(ctx, s.Text)
		})
		if err != nil {
			return nil, 0, err
		}
		return result.Reminders, result.Confidence, nil

	case AIImageInput:
		result, err := f.parse(ctx, func(p Parser) (*ai.ParseResult, error) {
			return p.ParseImage(ctx, s.Data, s.Prompt)
		})
		if err != nil {
			return nil, 0, err
		}
		return result.Reminders, result.Confidence, nil

	case VoiceInput:
		return s.Reminders, 1, nil

	default:
		return nil, 0, fmt.Errorf("unknown input source %T", src)
	}
}

func (f *Form) parse(ctx context.Context, call func(Parser) (*ai.ParseResult, error)) (*ai.ParseResult, error) {
	if f.parser == nil {
		return nil, fmt.Errorf("AI parsing is not configured")
	}

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	f.busy = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	return call(f.parser)
}

func buildManual(m ManualInput) reminder.Reminder {
	repeat := m.Repeat
	if repeat == "" {
		repeat = reminder.RepeatNone
	}
	return reminder.Reminder{
		Title:                m.Title,
		Description:          m.Description,
		ScheduledTime:        m.ScheduledTime,
		Repeat:               repeat,
		Custom:               m.Custom,
		MultiTime:            m.MultiTime,
		Slots:                m.Slots,
		Status:               reminder.StatusPending,
		NotificationsEnabled: m.NotificationsEnabled,
		SpaceID:              m.SpaceID,
	}
}

// Validate checks a draft before any external call is made.
func Validate(r *reminder.Reminder) error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.MultiTime && len(r.Slots) == 0 {
		return fmt.Errorf("a multi-time reminder needs at least one time slot")
	}
	if r.Repeat == reminder.RepeatCustom {
		if r.Custom == nil {
			return fmt.Errorf("a custom repeat needs an interval")
		}
		if r.Custom.Every < 1 {
			return fmt.Errorf("custom repeat interval must be at least 1")
		}
	}
	if r.ScheduledTime.IsZero() {
		return fmt.Errorf("scheduled time is required")
	}
	return nil
}

// SubmitResult reports the outcome of a multi-draft submit. Created
// lists IDs persisted before the first failure; FailedIndex is the index
// of the draft that failed, or -1.
type SubmitResult struct {
	Created     []int64
	FailedIndex int
	Err         error
}

// Submit validates every draft, then persists and schedules them
// sequentially. A failure stops the loop but earlier successes stay
// persisted; there is no rollback.
func (f *Form) Submit(ctx context.Context, drafts []reminder.Reminder) SubmitResult {
	result := SubmitResult{FailedIndex: -1}

	for i := range drafts {
		if err := Validate(&drafts[i]); err != nil {
			result.FailedIndex = i
			result.Err = fmt.Errorf("draft %d invalid: %w", i+1, err)
			return result
		}
	}

	for i := range drafts {
		if err := ctx.Err(); err != nil {
			result.FailedIndex = i
			result.Err = err
			return result
		}

		added, err := f.store.Add(drafts[i])
		if err != nil {
			result.FailedIndex = i
			result.Err = fmt.Errorf("failed to save %q: %w", drafts[i].Title, err)
			return result
		}
		result.Created = append(result.Created, added.ID)

		if err := f.notifier.ScheduleReminder(added); err != nil {
			result.FailedIndex = i
			result.Err = fmt.Errorf("saved %q but failed to schedule notifications: %w", added.Title, err)
			return result
		}
	}

	return result
}
