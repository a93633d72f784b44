package reminder

import (
	"fmt"
	"time"
)

// FormatTimeUntil renders the distance between now and target as a short
// human-readable phrase.
//
// Past targets report the largest whole unit with an "overdue" suffix:
// days, then hours, then minutes. Future targets report whole days when at
// least a day away, otherwise hours with a minute remainder, otherwise
// minutes, and "any moment now" under a minute.
func FormatTimeUntil(target, now time.Time) string {
	diff := target.Sub(now)

	if diff < 0 {
		elapsed := -diff
		switch {
		case elapsed >= 24*time.Hour:
			days := int(elapsed.Hours()) / 24
			return fmt.Sprintf("%d %s overdue", days, pluralDay(days))
		case elapsed >= time.Hour:
			return fmt.Sprintf("%dh overdue", int(elapsed.Hours()))
		default:
			return fmt.Sprintf("%dm overdue", int(elapsed.Minutes()))
		}
	}

	switch {
	case diff >= 24*time.Hour:
		days := int(diff.Hours()) / 24
		return fmt.Sprintf("In %d %s", days, pluralDay(days))
	case diff >= time.Hour:
		hours := int(diff.Hours())
		minutes := int(diff.Minutes()) % 60
		if minutes > 0 {
			return fmt.Sprintf("In %dh %dm", hours, minutes)
		}
		return fmt.Sprintf("In %dh", hours)
	case diff >= time.Minute:
		return fmt.Sprintf("In %dm", int(diff.Minutes()))
	default:
		return "any moment now"
	}
}

func pluralDay(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
