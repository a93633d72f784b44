package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/notadequate/remindd/internal/reminder"
)

// occurrence is one scheduled notification fire.
type occurrence struct {
	reminderID int64
	slotID     string // empty for single-occurrence reminders
	title      string
	detail     string
	at         time.Time
	repeat     string
	custom     *reminder.CustomInterval
}

func (o *occurrence) key() string {
	return fmt.Sprintf("%d/%s", o.reminderID, o.slotID)
}

// Dispatcher is an in-memory Service implementation: it keeps a table of
// upcoming occurrences and fires them from a ticker loop.
type Dispatcher struct {
	mu          sync.Mutex
	occurrences map[string]*occurrence
	sender      Sender
	interval    time.Duration
	now         func() time.Time
}

// NewDispatcher creates a dispatcher that delivers through sender and
// checks for due occurrences every interval.
func NewDispatcher(sender Sender, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		occurrences: make(map[string]*occurrence),
		sender:      sender,
		interval:    interval,
		now:         time.Now,
	}
}

// ScheduleReminder implements Service. Reminders with notifications
// disabled are cancelled rather than scheduled.
func (d *Dispatcher) ScheduleReminder(r *reminder.Reminder) error {
	if err := d.CancelReminder(r.ID); err != nil {
		return err
	}
	if !r.NotificationsEnabled {
		return nil
	}

	if r.MultiTime {
		var pending []reminder.TimeSlot
		for _, s := range r.Slots {
			if s.Status == reminder.StatusPending {
				pending = append(pending, s)
			}
		}
		return d.ScheduleSlots(r, pending)
	}

	if r.Status != reminder.StatusPending {
		return nil
	}

	now := d.now()
	at := r.ScheduledTime
	if !at.After(now) {
		if r.Repeat == reminder.RepeatNone {
			// Already past; nothing fires retroactively.
			return nil
		}
		at = advance(at, r.Repeat, r.Custom, now)
	}

	d.put(&occurrence{
		reminderID: r.ID,
		title:      r.Title,
		detail:     r.Description,
		at:         at,
		repeat:     r.Repeat,
		custom:     r.Custom,
	})
	return nil
}

// ScheduleSlots implements Service. Slots whose time already passed today
// are scheduled for their next occurrence tomorrow only when the reminder
// repeats; one-shot slots in the past schedule nothing.
func (d *Dispatcher) ScheduleSlots(r *reminder.Reminder, slots []reminder.TimeSlot) error {
	if !r.NotificationsEnabled {
		return nil
	}

	now := d.now()
	for _, s := range slots {
		if s.Status != reminder.StatusPending {
			continue
		}
		at := s.Time.On(now)
		if !at.After(now) {
			if r.Repeat == reminder.RepeatNone {
				continue
			}
			at = at.AddDate(0, 0, 1)
		}
		detail := s.Description
		if detail == "" {
			detail = r.Description
		}
		d.put(&occurrence{
			reminderID: r.ID,
			slotID:     s.ID,
			title:      r.Title,
			detail:     detail,
			at:         at,
			repeat:     r.Repeat,
			custom:     r.Custom,
		})
	}
	return nil
}

// CancelReminder implements Service.
func (d *Dispatcher) CancelReminder(reminderID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, o := range d.occurrences {
		if o.reminderID == reminderID {
			delete(d.occurrences, key)
		}
	}
	return nil
}

// CancelSlot implements Service.
func (d *Dispatcher) CancelSlot(reminderID int64, slotID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.occurrences, fmt.Sprintf("%d/%s", reminderID, slotID))
	return nil
}

// Pending returns the number of scheduled occurrences.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.occurrences)
}

// ScheduledReminders returns the IDs of reminders that currently have
// at least one scheduled occurrence.
func (d *Dispatcher) ScheduledReminders() []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	seen := make(map[int64]bool)
	var ids []int64
	for _, o := range d.occurrences {
		if !seen[o.reminderID] {
			seen[o.reminderID] = true
			ids = append(ids, o.reminderID)
		}
	}
	return ids
}

func (d *Dispatcher) put(o *occurrence) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.occurrences[o.key()] = o
}

// Run blocks and fires due occurrences on interval + immediately on
// start. It exits when ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d.interval <= 0 {
		return fmt.Errorf("dispatcher interval must be positive, got %s", d.interval)
	}

	log.Printf("[notify] Started. Interval: %s", d.interval)

	d.tick()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[notify] Shutting down...")
			return nil
		case <-ticker.C:
			d.tick()
		}
	}
}

func (d *Dispatcher) tick() {
	now := d.now()

	d.mu.Lock()
	var due []Notification
	for _, o := range d.occurrences {
		if o.at.After(now) {
			continue
		}
		// Captured before advancing so the message carries the time
		// that just came due, not the next occurrence.
		due = append(due, Notification{Title: o.title, Detail: o.detail, At: o.at})
		if o.repeat == reminder.RepeatNone {
			delete(d.occurrences, o.key())
			continue
		}
		next := advance(o.at, o.repeat, o.custom, now)
		if !next.After(now) {
			// advance gave up (unknown repeat or a broken custom
			// interval); drop it instead of re-firing every tick.
			log.Printf("[notify] Error: cannot advance occurrence for %q, dropping it", o.title)
			delete(d.occurrences, o.key())
			continue
		}
		o.at = next
	}
	d.mu.Unlock()

	for _, n := range due {
		if err := d.sender.Send(n); err != nil {
			log.Printf("[notify] Error: send failed for %q: %v", n.Title, err)
		}
	}
}

// advance moves at forward by the repeat interval until it is after now.
func advance(at time.Time, repeat string, custom *reminder.CustomInterval, now time.Time) time.Time {
	for !at.After(now) {
		switch repeat {
		case reminder.RepeatDaily:
			at = at.AddDate(0, 0, 1)
		case reminder.RepeatWeekly:
			at = at.AddDate(0, 0, 7)
		case reminder.RepeatMonthly:
			at = at.AddDate(0, 1, 0)
		case reminder.RepeatCustom:
			if custom == nil || custom.Every < 1 {
				return at
			}
			at = at.Add(custom.Duration())
		default:
			return at
		}
	}
	return at
}

