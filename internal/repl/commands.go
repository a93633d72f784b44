package repl

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/notadequate/remindd/internal/intake"
	"github.com/notadequate/remindd/internal/reminder"
	"github.com/notadequate/remindd/internal/ui"
)

// handleAdd parses a pipe-separated manual draft:
//
//	/add Title | 2025-01-15 09:00 | daily | 08:00,14:00,20:00
//
// The repeat and times fields are optional. Repeat accepts none, daily,
// weekly, monthly or "every N minutes|hours|days|weeks".
func (r *REPL) handleAdd(ctx context.Context, args string) error {
	if args == "" {
		return fmt.Errorf("usage: /add <title> | <YYYY-MM-DD HH:MM> [| repeat [| times]]")
	}

	fields := strings.Split(args, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 2 {
		return fmt.Errorf("usage: /add <title> | <YYYY-MM-DD HH:MM> [| repeat [| times]]")
	}

	scheduled, err := time.ParseInLocation("2006-01-02 15:04", fields[1], time.Local)
	if err != nil {
		return fmt.Errorf("invalid time %q: use YYYY-MM-DD HH:MM", fields[1])
	}

	input := intake.ManualInput{
		Title:                fields[0],
		ScheduledTime:        scheduled,
		NotificationsEnabled: true,
	}

	if len(fields) > 2 && fields[2] != "" {
		repeat, custom, err := parseRepeat(fields[2])
		if err != nil {
			return err
		}
		input.Repeat = repeat
		input.Custom = custom
	}

	if len(fields) > 3 && fields[3] != "" {
		slots, err := parseSlots(fields[3])
		if err != nil {
			return err
		}
		input.MultiTime = true
		input.Slots = slots
	}

	drafts, _, err := r.form.Drafts(ctx, input)
	if err != nil {
		return err
	}
	return r.submit(ctx, drafts)
}

func (r *REPL) handleList(args string) error {
	var f reminder.Filter

	tokens := strings.Fields(args)
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case reminder.StatusPending, reminder.StatusCompleted:
			f.Status = tokens[i]
		case "space":
			if i+1 >= len(tokens) {
				return fmt.Errorf("usage: /list [pending|completed] [space <id>]")
			}
			id, err := strconv.ParseInt(tokens[i+1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid space id %q", tokens[i+1])
			}
			f.SpaceID = &id
			i++
		default:
			return fmt.Errorf("unknown filter %q", tokens[i])
		}
	}

	reminders, err := r.store.List(f)
	if err != nil {
		return err
	}
	r.displayTiles(reminders)
	return nil
}

func (r *REPL) handleDue() error {
	reminders, err := r.store.GetDue(time.Now())
	if err != nil {
		return err
	}
	if len(reminders) == 0 {
		r.displayInfo("Nothing overdue. Nice.")
		return nil
	}
	r.displayTiles(reminders)
	return nil
}

func (r *REPL) handleShow(args string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	rem, err := r.store.GetByID(id)
	if err != nil {
		return err
	}

	details, err := r.formatter.Details(rem, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(details)
	return nil
}

func (r *REPL) handleToggle(args string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	rem, err := r.form.ToggleReminder(id, time.Now())
	if err != nil {
		return err
	}

	fmt.Println(r.formatter.Tile(rem, time.Now()))
	return nil
}

func (r *REPL) handleComplete(args string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	rem, err := r.form.CompleteReminder(id)
	if err != nil {
		return err
	}

	fmt.Println(r.formatter.Tile(rem, time.Now()))
	return nil
}

func (r *REPL) handleReopen(args string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	rem, err := r.form.ReopenReminder(id)
	if err != nil {
		return err
	}

	fmt.Println(r.formatter.Tile(rem, time.Now()))
	return nil
}

// handleSlot toggles one slot of a multi-time reminder, addressed by its
// 1-based position in the slot list.
func (r *REPL) handleSlot(args string) error {
	tokens := strings.Fields(args)
	if len(tokens) != 2 {
		return fmt.Errorf("usage: /slot <reminder-id> <slot-number>")
	}

	id, err := parseID(tokens[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(tokens[1])
	if err != nil || n < 1 {
		return fmt.Errorf("invalid slot number %q", tokens[1])
	}

	rem, err := r.store.GetByID(id)
	if err != nil {
		return err
	}
	if !rem.MultiTime || n > len(rem.Slots) {
		return fmt.Errorf("reminder %d has no slot %d", id, n)
	}

	updated, err := r.form.ToggleSlot(id, rem.Slots[n-1].ID)
	if err != nil {
		return err
	}

	fmt.Println(r.formatter.SlotChips(updated.Slots, time.Now()))
	return nil
}

func (r *REPL) handleAIText(ctx context.Context, args string) error {
	if args == "" {
		return fmt.Errorf("usage: /ai <describe your reminders in plain language>")
	}

	drafts, confidence, err := r.form.Drafts(ctx, intake.AITextInput{Text: args})
	if err != nil {
		return err
	}

	r.displayDrafts(drafts, confidence)
	return r.submit(ctx, drafts)
}

func (r *REPL) handleAIImage(ctx context.Context, args string) error {
	if args == "" {
		return fmt.Errorf("usage: /ai-image <path> [| prompt]")
	}

	path := args
	prompt := ""
	if idx := strings.Index(args, "|"); idx >= 0 {
		path = strings.TrimSpace(args[:idx])
		prompt = strings.TrimSpace(args[idx+1:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	drafts, confidence, err := r.form.Drafts(ctx, intake.AIImageInput{Data: data, Prompt: prompt})
	if err != nil {
		return err
	}

	r.displayDrafts(drafts, confidence)
	return r.submit(ctx, drafts)
}

// handleVoice runs the capture pipeline over a recorded audio file:
// the recorder is pointed at the file, then the pipeline transcribes it
// and parses the transcript into drafts.
func (r *REPL) handleVoice(ctx context.Context, args string) error {
	if r.voice == nil || r.recorder == nil {
		return fmt.Errorf("voice capture is not configured")
	}
	if args == "" {
		return fmt.Errorf("usage: /voice <path-to-wav>")
	}

	r.recorder.SetPath(args)

	if err := r.voice.StartRecording(ctx); err != nil {
		return err
	}
	if err := r.voice.StopRecording(ctx); err != nil {
		r.voice.ResetState()
		return err
	}

	var reminders []reminder.Reminder
	select {
	case reminders = <-r.voice.Results():
	default:
	}

	select {
	case transcript := <-r.voice.Transcripts():
		r.displayInfo(fmt.Sprintf("Heard: %s", transcript))
	default:
	}

	if len(reminders) == 0 {
		r.displayInfo("No reminders recognized in the recording.")
		return nil
	}

	drafts, confidence, err := r.form.Drafts(ctx, intake.VoiceInput{Reminders: reminders})
	if err != nil {
		return err
	}

	r.displayDrafts(drafts, confidence)
	return r.submit(ctx, drafts)
}

func (r *REPL) handleSpaces() error {
	spaces, err := r.spaces.List()
	if err != nil {
		return err
	}
	if len(spaces) == 0 {
		r.displayInfo("No spaces yet. Create one with /space add <name>.")
		return nil
	}
	for _, s := range spaces {
		fmt.Printf("  %d. %s\n", s.ID, s.Name)
	}
	fmt.Println()
	return nil
}

func (r *REPL) handleSpace(args string) error {
	tokens := strings.SplitN(args, " ", 2)
	if len(tokens) < 2 {
		return fmt.Errorf("usage: /space add <name> | /space rename <id> <name> | /space rm <id>")
	}

	switch tokens[0] {
	case "add":
		s, err := r.spaces.Add(strings.TrimSpace(tokens[1]))
		if err != nil {
			return err
		}
		r.displaySuccess(fmt.Sprintf("Space %q created (id %d).", s.Name, s.ID))
		return nil

	case "rename":
		parts := strings.SplitN(strings.TrimSpace(tokens[1]), " ", 2)
		if len(parts) != 2 {
			return fmt.Errorf("usage: /space rename <id> <name>")
		}
		id, err := parseID(parts[0])
		if err != nil {
			return err
		}
		if err := r.spaces.Rename(id, strings.TrimSpace(parts[1])); err != nil {
			return err
		}
		r.displaySuccess("Space renamed.")
		return nil

	case "rm":
		id, err := parseID(strings.TrimSpace(tokens[1]))
		if err != nil {
			return err
		}
		if err := r.spaces.Delete(id); err != nil {
			return err
		}
		r.displaySuccess("Space deleted. Its reminders are kept, unfiled.")
		return nil

	default:
		return fmt.Errorf("unknown space action %q", tokens[0])
	}
}

func (r *REPL) handleDelete(args string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	if err := r.notifier.CancelReminder(id); err != nil {
		return err
	}
	if err := r.store.Delete(id); err != nil {
		return err
	}

	r.displaySuccess(fmt.Sprintf("Reminder %d deleted.", id))
	return nil
}

// handleCountdown shows a live countdown to the reminder's next
// occurrence until the user presses Enter.
func (r *REPL) handleCountdown(args string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	rem, err := r.store.GetByID(id)
	if err != nil {
		return err
	}

	now := time.Now()
	target := rem.ScheduledTime
	label := rem.Title
	if rem.MultiTime {
		next, ok := reminder.NextActionableSlot(rem.Slots, now)
		if !ok {
			return fmt.Errorf("reminder %d has no time slots", id)
		}
		target = next.Time.On(now)
		if target.Before(now) {
			target = target.AddDate(0, 0, 1)
		}
		label = fmt.Sprintf("%s %s", rem.Title, next.Time)
	}

	countdown := ui.NewCountdown(os.Stdout, target, label)
	countdown.Start()
	defer countdown.Stop()

	r.displayInfo("Press Enter to stop the countdown.")
	_, err = r.rl.Readline()
	if err != nil && !isEOF(err) {
		return err
	}
	return nil
}

func (r *REPL) submit(ctx context.Context, drafts []reminder.Reminder) error {
	result := r.form.Submit(ctx, drafts)
	for _, id := range result.Created {
		r.displaySuccess(fmt.Sprintf("Reminder %d saved.", id))
	}
	return result.Err
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid reminder id %q", strings.TrimSpace(s))
	}
	return id, nil
}

func parseRepeat(s string) (string, *reminder.CustomInterval, error) {
	switch s {
	case reminder.RepeatNone, reminder.RepeatDaily, reminder.RepeatWeekly, reminder.RepeatMonthly:
		return s, nil, nil
	}

	// "every 3 days"
	tokens := strings.Fields(s)
	if len(tokens) == 3 && tokens[0] == "every" {
		every, err := strconv.Atoi(tokens[1])
		if err != nil || every < 1 {
			return "", nil, fmt.Errorf("invalid repeat count %q", tokens[1])
		}
		switch tokens[2] {
		case reminder.UnitMinutes, reminder.UnitHours, reminder.UnitDays, reminder.UnitWeeks:
			return reminder.RepeatCustom, &reminder.CustomInterval{Every: every, Unit: tokens[2]}, nil
		}
	}

	return "", nil, fmt.Errorf("invalid repeat %q: use none, daily, weekly, monthly or \"every N days\"", s)
}

func parseSlots(s string) ([]reminder.TimeSlot, error) {
	var slots []reminder.TimeSlot
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clock := strings.SplitN(part, ":", 2)
		if len(clock) != 2 {
			return nil, fmt.Errorf("invalid slot time %q: use HH:MM", part)
		}
		hour, err1 := strconv.Atoi(clock[0])
		minute, err2 := strconv.Atoi(clock[1])
		if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return nil, fmt.Errorf("invalid slot time %q: use HH:MM", part)
		}
		slots = append(slots, reminder.NewTimeSlot(hour, minute, ""))
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("no valid slot times given")
	}
	return slots, nil
}
