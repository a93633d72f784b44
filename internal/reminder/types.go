package reminder

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status values stored for reminders and time slots. Overdue is never
// stored; it is a read-time classification (see DisplayStatus).
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// DisplayStatus is the status shown to users: the stored status plus the
// derived overdue label for pending items whose time has passed.
type DisplayStatus string

const (
	DisplayPending   DisplayStatus = "pending"
	DisplayCompleted DisplayStatus = "completed"
	DisplayOverdue   DisplayStatus = "overdue"
)

// Repeat types for reminders.
const (
	RepeatNone    = "none"
	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
	RepeatCustom  = "custom"
)

// Interval units for custom repeats.
const (
	UnitMinutes = "minutes"
	UnitHours   = "hours"
	UnitDays    = "days"
	UnitWeeks   = "weeks"
)

// CustomInterval configures a custom repeat, e.g. "every 3 days".
type CustomInterval struct {
	Every int    `json:"every"`
	Unit  string `json:"unit"`
}

// Duration returns the interval as a time.Duration.
func (c CustomInterval) Duration() time.Duration {
	switch c.Unit {
	case UnitMinutes:
		return time.Duration(c.Every) * time.Minute
	case UnitHours:
		return time.Duration(c.Every) * time.Hour
	case UnitWeeks:
		return time.Duration(c.Every) * 7 * 24 * time.Hour
	default:
		return time.Duration(c.Every) * 24 * time.Hour
	}
}

// TimeOfDay is a wall-clock time with no date component.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes returns the time as minutes since midnight, used for ordering.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// On places the time-of-day onto the calendar date of ref, in ref's
// location.
func (t TimeOfDay) On(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, 0, 0, ref.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// TimeSlot is one scheduled occurrence within a multi-time reminder.
type TimeSlot struct {
	ID          string    `json:"id"`
	Time        TimeOfDay `json:"time"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
}

// NewTimeSlot creates a pending slot with a fresh ID.
func NewTimeSlot(hour, minute int, description string) TimeSlot {
	return TimeSlot{
		ID:          uuid.NewString(),
		Time:        TimeOfDay{Hour: hour, Minute: minute},
		Description: description,
		Status:      StatusPending,
	}
}

// Reminder is a scheduled reminder, either single-occurrence
// (MultiTime false, Status authoritative) or multi-time (MultiTime true,
// status derived from Slots). ScheduledTime stays populated in both modes
// and acts as the base date for multi-time reminders.
type Reminder struct {
	ID                   int64           `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description,omitempty"`
	ScheduledTime        time.Time       `json:"scheduled_time"`
	Repeat               string          `json:"repeat"`
	Custom               *CustomInterval `json:"custom,omitempty"`
	MultiTime            bool            `json:"multi_time"`
	Slots                []TimeSlot      `json:"slots,omitempty"`
	Status               string          `json:"status"`
	NotificationsEnabled bool            `json:"notifications_enabled"`
	SpaceID              *int64          `json:"space_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// AsSlot views a single-occurrence reminder as a one-element slot so the
// multi-slot status functions apply uniformly.
func (r *Reminder) AsSlot() TimeSlot {
	return TimeSlot{
		ID:     fmt.Sprintf("reminder-%d", r.ID),
		Time:   TimeOfDay{Hour: r.ScheduledTime.Hour(), Minute: r.ScheduledTime.Minute()},
		Status: r.Status,
	}
}

// SlotByID returns the slot with the given ID, or nil.
func (r *Reminder) SlotByID(slotID string) *TimeSlot {
	for i := range r.Slots {
		if r.Slots[i].ID == slotID {
			return &r.Slots[i]
		}
	}
	return nil
}
