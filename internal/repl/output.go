package repl

import (
	"fmt"
	"time"

	"github.com/notadequate/remindd/internal/reminder"
)

func (r *REPL) displayWelcome() {
	fmt.Println()
	fmt.Println("remindd - reminders in your terminal")
	fmt.Println("Type /help for commands, /quit to leave.")
	fmt.Println()
}

func (r *REPL) displayError(err error) {
	fmt.Println(r.formatter.FormatError(err))
	fmt.Println()
}

func (r *REPL) displayInfo(msg string) {
	fmt.Println(r.formatter.FormatInfo(msg))
	fmt.Println()
}

func (r *REPL) displaySuccess(msg string) {
	fmt.Println(r.formatter.FormatSuccess(msg))
	fmt.Println()
}

func (r *REPL) displayTiles(reminders []reminder.Reminder) {
	if len(reminders) == 0 {
		r.displayInfo("No reminders found.")
		return
	}

	now := time.Now()
	for i := range reminders {
		fmt.Println(r.formatter.Tile(&reminders[i], now))
	}
	fmt.Println()
}

func (r *REPL) displayDrafts(drafts []reminder.Reminder, confidence float64) {
	if len(drafts) == 0 {
		return
	}

	header := fmt.Sprintf("Recognized %d reminder(s)", len(drafts))
	if confidence < 1 {
		header = fmt.Sprintf("%s (confidence %.0f%%)", header, confidence*100)
	}
	r.displayInfo(header)

	for i := range drafts {
		d := &drafts[i]
		line := fmt.Sprintf("  %d. %s at %s", i+1, d.Title, d.ScheduledTime.Format("2006-01-02 15:04"))
		if d.MultiTime {
			times := make([]string, 0, len(d.Slots))
			for _, slot := range d.Slots {
				times = append(times, slot.Time.String())
			}
			line = fmt.Sprintf("  %d. %s at %v", i+1, d.Title, times)
		}
		if d.Repeat != "" && d.Repeat != reminder.RepeatNone {
			line += fmt.Sprintf(" (%s)", d.Repeat)
		}
		fmt.Println(line)
	}
	fmt.Println()
}
