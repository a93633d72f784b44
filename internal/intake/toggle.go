package intake

import (
	"fmt"
	"time"

	"github.com/notadequate/remindd/internal/reminder"
)

// ToggleSlot flips one slot's status, persists it, and applies the
// notification side effects: completing cancels the slot's pending
// notification, reopening reschedules it (which is a no-op for a
// one-shot time already in the past).
func (f *Form) ToggleSlot(reminderID int64, slotID string) (*reminder.Reminder, error) {
	r, err := f.store.GetByID(reminderID)
	if err != nil {
		return nil, err
	}

	slot := r.SlotByID(slotID)
	if slot == nil {
		return nil, fmt.Errorf("slot %s not found on reminder %d", slotID, reminderID)
	}

	slot.Status = reminder.ToggleStatus(slot.Status)
	if err := f.store.UpdateSlotStatus(reminderID, slotID, slot.Status); err != nil {
		return nil, err
	}

	if slot.Status == reminder.StatusCompleted {
		if err := f.notifier.CancelSlot(reminderID, slotID); err != nil {
			return nil, fmt.Errorf("slot updated but notification cancel failed: %w", err)
		}
	} else {
		if err := f.notifier.ScheduleSlots(r, []reminder.TimeSlot{*slot}); err != nil {
			return nil, fmt.Errorf("slot updated but notification schedule failed: %w", err)
		}
	}

	return r, nil
}

// ToggleReminder flips a whole reminder. For multi-time reminders the
// direction is inferred from the aggregate status: a fully completed
// reminder reopens, anything else (including mixed states) completes the
// remaining pending slots.
func (f *Form) ToggleReminder(reminderID int64, now time.Time) (*reminder.Reminder, error) {
	r, err := f.store.GetByID(reminderID)
	if err != nil {
		return nil, err
	}

	if !r.MultiTime {
		return f.toggleSingle(r)
	}

	if reminder.AggregateStatus(r.Slots, now) == reminder.DisplayCompleted {
		return f.reopenAll(r)
	}
	return f.completeAll(r)
}

// CompleteReminder marks a reminder done regardless of current state.
// Idempotent: a fully completed reminder stays completed.
func (f *Form) CompleteReminder(reminderID int64) (*reminder.Reminder, error) {
	r, err := f.store.GetByID(reminderID)
	if err != nil {
		return nil, err
	}

	if !r.MultiTime {
		if r.Status == reminder.StatusCompleted {
			return r, nil
		}
		return f.toggleSingle(r)
	}
	return f.completeAll(r)
}

// ReopenReminder puts a reminder back to pending regardless of current
// state. Idempotent; past one-shot occurrences are not rescheduled.
func (f *Form) ReopenReminder(reminderID int64) (*reminder.Reminder, error) {
	r, err := f.store.GetByID(reminderID)
	if err != nil {
		return nil, err
	}

	if !r.MultiTime {
		if r.Status == reminder.StatusPending {
			return r, nil
		}
		return f.toggleSingle(r)
	}
	return f.reopenAll(r)
}

func (f *Form) toggleSingle(r *reminder.Reminder) (*reminder.Reminder, error) {
	r.Status = reminder.ToggleStatus(r.Status)
	if err := f.store.UpdateStatus(r.ID, r.Status); err != nil {
		return nil, err
	}

	if r.Status == reminder.StatusCompleted {
		if err := f.notifier.CancelReminder(r.ID); err != nil {
			return nil, fmt.Errorf("reminder updated but notification cancel failed: %w", err)
		}
	} else {
		if err := f.notifier.ScheduleReminder(r); err != nil {
			return nil, fmt.Errorf("reminder updated but notification schedule failed: %w", err)
		}
	}
	return r, nil
}

func (f *Form) completeAll(r *reminder.Reminder) (*reminder.Reminder, error) {
	changed := reminder.CompleteAll(r.Slots)

	// Sequential writes; a failure leaves earlier slots persisted.
	for _, slotID := range changed {
		if err := f.store.UpdateSlotStatus(r.ID, slotID, reminder.StatusCompleted); err != nil {
			return nil, fmt.Errorf("failed to complete slot %s: %w", slotID, err)
		}
		if err := f.notifier.CancelSlot(r.ID, slotID); err != nil {
			return nil, fmt.Errorf("slot completed but notification cancel failed: %w", err)
		}
	}

	r.Status = reminder.StatusCompleted
	if err := f.store.UpdateStatus(r.ID, r.Status); err != nil {
		return nil, err
	}
	return r, nil
}

func (f *Form) reopenAll(r *reminder.Reminder) (*reminder.Reminder, error) {
	changed := reminder.ReopenAll(r.Slots)

	for _, slotID := range changed {
		if err := f.store.UpdateSlotStatus(r.ID, slotID, reminder.StatusPending); err != nil {
			return nil, fmt.Errorf("failed to reopen slot %s: %w", slotID, err)
		}
	}
	if len(changed) > 0 {
		// One scheduling pass; past one-shot slots are skipped by the
		// notifier, so nothing fires retroactively.
		if err := f.notifier.ScheduleReminder(r); err != nil {
			return nil, fmt.Errorf("slots reopened but notification schedule failed: %w", err)
		}
	}

	r.Status = reminder.StatusPending
	if err := f.store.UpdateStatus(r.ID, r.Status); err != nil {
		return nil, err
	}
	return r, nil
}
