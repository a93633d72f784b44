package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatTimeUntil(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		offset time.Duration
		want   string
	}{
		{"90 minutes ahead", 90 * time.Minute, "In 1h 30m"},
		{"2 hours sharp", 2 * time.Hour, "In 2h"},
		{"5 minutes ahead", 5 * time.Minute, "In 5m"},
		{"1 minute ahead", time.Minute, "In 1m"},
		{"45 seconds ahead", 45 * time.Second, "any moment now"},
		{"exactly 7 days", 7 * 24 * time.Hour, "In 7 days"},
		{"8 days ahead", 8 * 24 * time.Hour, "In 8 days"},
		{"1 day ahead", 25 * time.Hour, "In 1 day"},
		{"3 days 2 hours ago", -(3*24 + 2) * time.Hour, "3 days overdue"},
		{"1 day ago", -25 * time.Hour, "1 day overdue"},
		{"5 hours ago", -5 * time.Hour, "5h overdue"},
		{"10 minutes ago", -10 * time.Minute, "10m overdue"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FormatTimeUntil(now.Add(tc.offset), now))
		})
	}
}
