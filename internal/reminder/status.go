package reminder

import "time"

// OverdueAt reports whether the slot should be shown as overdue at ref.
// Only pending slots can be overdue: a completed slot stays completed no
// matter how long after its nominal time it was finished.
func (s TimeSlot) OverdueAt(ref time.Time) bool {
	if s.Status != StatusPending {
		return false
	}
	return s.Time.On(ref).Before(ref)
}

// DisplayStatusAt classifies the slot for rendering at ref.
func (s TimeSlot) DisplayStatusAt(ref time.Time) DisplayStatus {
	switch {
	case s.Status == StatusCompleted:
		return DisplayCompleted
	case s.OverdueAt(ref):
		return DisplayOverdue
	default:
		return DisplayPending
	}
}

// AggregateStatus derives the reminder-level status from its slots.
// Priority order: all completed wins over any lateness, then any overdue
// slot surfaces the whole reminder as overdue, otherwise pending. An empty
// slot list is pending.
func AggregateStatus(slots []TimeSlot, now time.Time) DisplayStatus {
	if len(slots) == 0 {
		return DisplayPending
	}

	allCompleted := true
	for _, s := range slots {
		if s.Status != StatusCompleted {
			allCompleted = false
			break
		}
	}
	if allCompleted {
		return DisplayCompleted
	}

	for _, s := range slots {
		if s.OverdueAt(now) {
			return DisplayOverdue
		}
	}
	return DisplayPending
}

// Progress returns the completed fraction of slots, in [0, 1].
// An empty list reports 0.
func Progress(slots []TimeSlot) float64 {
	if len(slots) == 0 {
		return 0
	}
	completed := 0
	for _, s := range slots {
		if s.Status == StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(slots))
}

// NextActionableSlot picks the slot a user should act on next:
// the soonest pending slot strictly after now's time-of-day, else the
// earliest pending slot (wrap-around to tomorrow), else the first slot in
// the original order so callers always have something to highlight.
// Returns false only for an empty list.
func NextActionableSlot(slots []TimeSlot, now time.Time) (TimeSlot, bool) {
	if len(slots) == 0 {
		return TimeSlot{}, false
	}

	nowMinutes := now.Hour()*60 + now.Minute()

	var upcoming, earliest *TimeSlot
	for i := range slots {
		s := &slots[i]
		if s.Status != StatusPending {
			continue
		}
		if earliest == nil || s.Time.Minutes() < earliest.Time.Minutes() {
			earliest = s
		}
		if s.Time.Minutes() > nowMinutes {
			if upcoming == nil || s.Time.Minutes() < upcoming.Time.Minutes() {
				upcoming = s
			}
		}
	}

	if upcoming != nil {
		return *upcoming, true
	}
	if earliest != nil {
		return *earliest, true
	}
	return slots[0], true
}

// ToggleStatus flips the stored status: pending (including slots shown as
// overdue) becomes completed, completed becomes pending. Overdue is never
// a toggle target; it is only a read-time label on pending.
func ToggleStatus(status string) string {
	if status == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// CompleteAll marks every pending slot completed and returns the IDs of
// the slots that changed. Already-completed slots are untouched, so the
// operation is idempotent.
func CompleteAll(slots []TimeSlot) []string {
	var changed []string
	for i := range slots {
		if slots[i].Status == StatusPending {
			slots[i].Status = StatusCompleted
			changed = append(changed, slots[i].ID)
		}
	}
	return changed
}

// ReopenAll marks every completed slot pending and returns the IDs of the
// slots that changed.
func ReopenAll(slots []TimeSlot) []string {
	var changed []string
	for i := range slots {
		if slots[i].Status == StatusCompleted {
			slots[i].Status = StatusPending
			changed = append(changed, slots[i].ID)
		}
	}
	return changed
}

// OverdueAt reports whether a single-occurrence reminder is overdue at
// ref: still pending with its scheduled time in the past. Multi-time
// reminders delegate to their slots.
func (r *Reminder) OverdueAt(ref time.Time) bool {
	if r.MultiTime {
		return AggregateStatus(r.Slots, ref) == DisplayOverdue
	}
	return r.Status == StatusPending && r.ScheduledTime.Before(ref)
}

// DisplayStatusAt classifies the reminder for rendering at ref, covering
// both scheduling modes.
func (r *Reminder) DisplayStatusAt(ref time.Time) DisplayStatus {
	if r.MultiTime {
		return AggregateStatus(r.Slots, ref)
	}
	if r.Status == StatusCompleted {
		return DisplayCompleted
	}
	if r.OverdueAt(ref) {
		return DisplayOverdue
	}
	return DisplayPending
}
