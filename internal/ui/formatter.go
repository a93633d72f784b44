package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/notadequate/remindd/internal/reminder"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Bright cyan
			Bold(true)

	PendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	CompletedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")) // Soft green

	OverdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	ChipStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	NextChipStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("81")).
			Padding(0, 1).
			Bold(true)

	TileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")). // Soft blue border
			Padding(0, 1)
)

// Formatter renders reminders for the terminal.
type Formatter struct {
	colored bool
}

// NewFormatter creates a formatter. With colored false all styling is
// skipped and plain text comes out.
func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored}
}

func (f *Formatter) style(s lipgloss.Style, text string) string {
	if !f.colored {
		return text
	}
	return s.Render(text)
}

// StatusBadge renders a display status.
func (f *Formatter) StatusBadge(status reminder.DisplayStatus) string {
	switch status {
	case reminder.DisplayCompleted:
		return f.style(CompletedStyle, "✓ completed")
	case reminder.DisplayOverdue:
		return f.style(OverdueStyle, "! overdue")
	default:
		return f.style(PendingStyle, "· pending")
	}
}

// Tile renders a one-reminder summary card: title, schedule, status,
// and for multi-time reminders the progress and next actionable slot.
func (f *Formatter) Tile(r *reminder.Reminder, now time.Time) string {
	var b strings.Builder

	title := fmt.Sprintf("#%d %s", r.ID, r.Title)
	b.WriteString(f.style(TitleStyle, title))
	b.WriteString("  ")
	b.WriteString(f.StatusBadge(r.DisplayStatusAt(now)))
	b.WriteString("\n")

	if r.MultiTime {
		b.WriteString(f.style(DimStyle, fmt.Sprintf("%d slots · %s", len(r.Slots), f.progressBar(reminder.Progress(r.Slots)))))
		if next, ok := reminder.NextActionableSlot(r.Slots, now); ok {
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("next: %s %s", next.Time, f.style(InfoStyle, reminder.FormatTimeUntil(next.Time.On(now), now))))
		}
	} else {
		b.WriteString(fmt.Sprintf("%s %s",
			r.ScheduledTime.Format("Mon Jan 2 15:04"),
			f.style(InfoStyle, reminder.FormatTimeUntil(r.ScheduledTime, now))))
	}

	if r.Repeat != reminder.RepeatNone && r.Repeat != "" {
		b.WriteString(f.style(DimStyle, fmt.Sprintf(" · repeats %s", f.repeatLabel(r))))
	}
	b.WriteString("\n")
	b.WriteString(f.style(DimStyle, "created "+humanize.Time(r.CreatedAt)))

	if !f.colored {
		return b.String()
	}
	return TileStyle.Render(b.String())
}

// SlotChips renders the slot row of a multi-time reminder, one chip per
// slot, with the next actionable slot highlighted.
func (f *Formatter) SlotChips(slots []reminder.TimeSlot, now time.Time) string {
	if len(slots) == 0 {
		return f.style(DimStyle, "no time slots")
	}

	next, _ := reminder.NextActionableSlot(slots, now)

	chips := make([]string, 0, len(slots))
	for _, s := range slots {
		label := s.Time.String()
		switch s.DisplayStatusAt(now) {
		case reminder.DisplayCompleted:
			label = f.style(CompletedStyle, "✓ "+label)
		case reminder.DisplayOverdue:
			label = f.style(OverdueStyle, "! "+label)
		}

		if !f.colored {
			if s.ID == next.ID {
				label = "[" + label + "]"
			}
			chips = append(chips, label)
			continue
		}

		chip := ChipStyle
		if s.ID == next.ID {
			chip = NextChipStyle
		}
		chips = append(chips, chip.Render(label))
	}

	if !f.colored {
		return strings.Join(chips, "  ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, chips...)
}

// Details renders the full reminder view as markdown through glamour.
func (f *Formatter) Details(r *reminder.Reminder, now time.Time) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Description)
	}

	fmt.Fprintf(&b, "- **Status:** %s\n", r.DisplayStatusAt(now))
	fmt.Fprintf(&b, "- **Scheduled:** %s (%s)\n",
		r.ScheduledTime.Format("Mon Jan 2 2006 15:04"),
		reminder.FormatTimeUntil(r.ScheduledTime, now))
	fmt.Fprintf(&b, "- **Repeat:** %s\n", f.repeatLabel(r))
	if r.SpaceID != nil {
		fmt.Fprintf(&b, "- **Space:** %d\n", *r.SpaceID)
	}
	fmt.Fprintf(&b, "- **Notifications:** %v\n", r.NotificationsEnabled)

	if r.MultiTime {
		fmt.Fprintf(&b, "\n## Time slots (%.0f%% done)\n\n", reminder.Progress(r.Slots)*100)
		for _, s := range r.Slots {
			marker := " "
			if s.Status == reminder.StatusCompleted {
				marker = "x"
			}
			line := fmt.Sprintf("- [%s] %s", marker, s.Time)
			if s.Description != "" {
				line += ": " + s.Description
			}
			if s.DisplayStatusAt(now) == reminder.DisplayOverdue {
				line += " (overdue)"
			}
			fmt.Fprintf(&b, "%s\n", line)
		}
	}

	if !f.colored {
		return b.String(), nil
	}

	out, err := glamour.Render(b.String(), "dark")
	if err != nil {
		return "", fmt.Errorf("failed to render details: %w", err)
	}
	return out, nil
}

func (f *Formatter) repeatLabel(r *reminder.Reminder) string {
	if r.Repeat == reminder.RepeatCustom && r.Custom != nil {
		return fmt.Sprintf("every %d %s", r.Custom.Every, r.Custom.Unit)
	}
	if r.Repeat == "" {
		return reminder.RepeatNone
	}
	return r.Repeat
}

func (f *Formatter) progressBar(p float64) string {
	const width = 10
	filled := int(p*width + 0.5)
	return fmt.Sprintf("[%s%s] %.0f%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		p*100)
}

// FormatError renders a user-facing error line.
func (f *Formatter) FormatError(err error) string {
	return f.style(ErrorStyle, "Error: "+err.Error())
}

// FormatInfo renders an informational line.
func (f *Formatter) FormatInfo(msg string) string {
	return f.style(InfoStyle, msg)
}

// FormatSuccess renders a success line.
func (f *Formatter) FormatSuccess(msg string) string {
	return f.style(CompletedStyle, msg)
}
