package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func slot(hour, minute int, status string) TimeSlot {
	s := NewTimeSlot(hour, minute, "")
	s.Status = status
	return s
}

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestCompletedSlotIsNeverOverdue(t *testing.T) {
	s := slot(8, 0, StatusCompleted)

	require.False(t, s.OverdueAt(at(9, 0)))
	require.False(t, s.OverdueAt(at(23, 59)))
	require.False(t, s.OverdueAt(s.Time.On(at(0, 0)).AddDate(1, 0, 0)))
}

func TestPendingSlotOverdueOnlyPastItsTime(t *testing.T) {
	s := slot(14, 30, StatusPending)

	require.False(t, s.OverdueAt(at(14, 0)))
	require.False(t, s.OverdueAt(at(14, 30)), "strictly before, not at")
	require.True(t, s.OverdueAt(at(14, 31)))
}

func TestAggregateAllCompletedBeatsLateness(t *testing.T) {
	slots := []TimeSlot{
		slot(8, 0, StatusCompleted),
		slot(12, 0, StatusCompleted),
	}

	// Both slot times are long past; completion still wins.
	require.Equal(t, DisplayCompleted, AggregateStatus(slots, at(22, 0)))
}

func TestAggregateOverdueWhenAnyPendingSlotIsLate(t *testing.T) {
	slots := []TimeSlot{
		slot(8, 0, StatusPending),
		slot(20, 0, StatusPending),
		slot(9, 0, StatusCompleted),
	}

	require.Equal(t, DisplayOverdue, AggregateStatus(slots, at(10, 0)))
}

func TestAggregatePendingWhenNothingIsLate(t *testing.T) {
	slots := []TimeSlot{
		slot(18, 0, StatusPending),
		slot(20, 0, StatusPending),
	}

	require.Equal(t, DisplayPending, AggregateStatus(slots, at(10, 0)))
	require.Equal(t, DisplayPending, AggregateStatus(nil, at(10, 0)))
}

func TestProgressBounds(t *testing.T) {
	require.Equal(t, 0.0, Progress(nil))
	require.Equal(t, 0.0, Progress([]TimeSlot{slot(8, 0, StatusPending), slot(9, 0, StatusPending)}))

	half := Progress([]TimeSlot{slot(8, 0, StatusCompleted), slot(9, 0, StatusPending)})
	require.Equal(t, 0.5, half)

	full := Progress([]TimeSlot{slot(8, 0, StatusCompleted), slot(9, 0, StatusCompleted)})
	require.Equal(t, 1.0, full)

	for _, slots := range [][]TimeSlot{
		nil,
		{slot(8, 0, StatusPending)},
		{slot(8, 0, StatusCompleted), slot(9, 0, StatusPending), slot(10, 0, StatusPending)},
	} {
		p := Progress(slots)
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
	}
}

func TestCompleteAllIsIdempotent(t *testing.T) {
	slots := []TimeSlot{
		slot(8, 0, StatusPending),
		slot(12, 0, StatusCompleted),
		slot(20, 0, StatusPending),
	}

	changed := CompleteAll(slots)
	require.Len(t, changed, 2)
	for _, s := range slots {
		require.Equal(t, StatusCompleted, s.Status)
	}

	// Second application touches nothing.
	changed = CompleteAll(slots)
	require.Empty(t, changed)
	for _, s := range slots {
		require.Equal(t, StatusCompleted, s.Status)
	}
}

func TestReopenAllLeavesPendingAlone(t *testing.T) {
	slots := []TimeSlot{
		slot(8, 0, StatusCompleted),
		slot(12, 0, StatusPending),
	}

	changed := ReopenAll(slots)
	require.Len(t, changed, 1)
	require.Equal(t, slots[0].ID, changed[0])
	require.Equal(t, StatusPending, slots[0].Status)
	require.Equal(t, StatusPending, slots[1].Status)
}

func TestToggleStatusFlipsBothWays(t *testing.T) {
	require.Equal(t, StatusCompleted, ToggleStatus(StatusPending))
	require.Equal(t, StatusPending, ToggleStatus(StatusCompleted))
}

func TestNextActionableSlotPrefersUpcoming(t *testing.T) {
	slots := []TimeSlot{
		slot(8, 0, StatusPending),
		slot(14, 0, StatusCompleted),
		slot(20, 0, StatusPending),
	}

	next, ok := NextActionableSlot(slots, at(15, 0))
	require.True(t, ok)
	require.Equal(t, TimeOfDay{Hour: 20}, next.Time)
}

func TestNextActionableSlotWrapsToEarliestPending(t *testing.T) {
	slots := []TimeSlot{
		slot(8, 0, StatusPending),
		slot(14, 0, StatusCompleted),
		slot(20, 0, StatusPending),
	}

	next, ok := NextActionableSlot(slots, at(21, 0))
	require.True(t, ok)
	require.Equal(t, TimeOfDay{Hour: 8}, next.Time)
}

func TestNextActionableSlotFallsBackToFirst(t *testing.T) {
	slots := []TimeSlot{
		slot(9, 0, StatusCompleted),
		slot(8, 0, StatusCompleted),
	}

	next, ok := NextActionableSlot(slots, at(12, 0))
	require.True(t, ok)
	require.Equal(t, slots[0].ID, next.ID)

	_, ok = NextActionableSlot(nil, at(12, 0))
	require.False(t, ok)
}

func TestSingleOccurrenceMatchesSlotClassification(t *testing.T) {
	now := at(12, 0)

	cases := []struct {
		name      string
		scheduled time.Time
		status    string
	}{
		{"pending future", at(18, 0), StatusPending},
		{"pending past", at(9, 0), StatusPending},
		{"completed past", at(9, 0), StatusCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &Reminder{ID: 1, Title: "water plants", ScheduledTime: tc.scheduled, Status: tc.status}

			asSlot := r.AsSlot()
			require.Equal(t, r.OverdueAt(now), asSlot.OverdueAt(now))
			require.Equal(t, r.DisplayStatusAt(now), asSlot.DisplayStatusAt(now))
			require.Equal(t, r.DisplayStatusAt(now), AggregateStatus([]TimeSlot{asSlot}, now))
		})
	}
}

func TestMultiTimeReminderDelegatesToSlots(t *testing.T) {
	r := &Reminder{
		ID:        2,
		MultiTime: true,
		Slots: []TimeSlot{
			slot(8, 0, StatusPending),
			slot(20, 0, StatusPending),
		},
	}

	require.True(t, r.OverdueAt(at(10, 0)))
	require.Equal(t, DisplayOverdue, r.DisplayStatusAt(at(10, 0)))

	CompleteAll(r.Slots)
	require.False(t, r.OverdueAt(at(23, 0)))
	require.Equal(t, DisplayCompleted, r.DisplayStatusAt(at(23, 0)))
}
