// Package notify schedules and delivers reminder notifications.
package notify

import (
	"log"
	"time"

	"github.com/notadequate/remindd/internal/reminder"
)

// Service is the notification surface the rest of the app talks to.
// Completing a slot cancels its pending notification; reopening a slot
// whose time has not yet passed schedules a new one; reopening a slot
// already in the past schedules nothing.
type Service interface {
	// ScheduleReminder (re)schedules all pending occurrences of a
	// reminder, replacing whatever was scheduled for it before.
	ScheduleReminder(r *reminder.Reminder) error

	// ScheduleSlots schedules specific time slots of a reminder.
	ScheduleSlots(r *reminder.Reminder, slots []reminder.TimeSlot) error

	// CancelReminder cancels every scheduled occurrence of a reminder.
	CancelReminder(reminderID int64) error

	// CancelSlot cancels one slot's scheduled occurrence.
	CancelSlot(reminderID int64, slotID string) error
}

// Notification is one due occurrence handed to a Sender. Each sender
// renders it for its own channel.
type Notification struct {
	Title  string
	Detail string
	At     time.Time
}

// Sender delivers a notification.
type Sender interface {
	Send(n Notification) error
}

// LogSender writes notifications to the process log. Used when no
// Telegram credentials are configured.
type LogSender struct{}

func (LogSender) Send(n Notification) error {
	if n.Detail != "" {
		log.Printf("[notify] %s (%s), due %s", n.Title, n.Detail, n.At.Format("Mon Jan 2 15:04"))
		return nil
	}
	log.Printf("[notify] %s, due %s", n.Title, n.At.Format("Mon Jan 2 15:04"))
	return nil
}
