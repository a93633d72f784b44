package reminder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "reminders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAddAndGet(t *testing.T) {
	store := newTestStore(t)

	added, err := store.Add(Reminder{
		Title:                "take medication",
		Description:          "with food",
		ScheduledTime:        time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		MultiTime:            true,
		NotificationsEnabled: true,
		Slots: []TimeSlot{
			NewTimeSlot(8, 0, "morning dose"),
			NewTimeSlot(20, 0, "evening dose"),
		},
	})
	require.NoError(t, err)
	require.NotZero(t, added.ID)
	require.Equal(t, StatusPending, added.Status)
	require.Equal(t, RepeatNone, added.Repeat)

	got, err := store.GetByID(added.ID)
	require.NoError(t, err)
	require.Equal(t, "take medication", got.Title)
	require.True(t, got.MultiTime)
	require.True(t, got.NotificationsEnabled)
	require.Len(t, got.Slots, 2)
	require.Equal(t, "morning dose", got.Slots[0].Description)
	require.Equal(t, TimeOfDay{Hour: 20}, got.Slots[1].Time)
	require.Equal(t, StatusPending, got.Slots[0].Status)
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(42)
	require.ErrorContains(t, err, "not found")
}

func TestStoreUpdateSlotStatus(t *testing.T) {
	store := newTestStore(t)

	added, err := store.Add(Reminder{
		Title:         "stretch",
		ScheduledTime: time.Now().UTC(),
		MultiTime:     true,
		Slots:         []TimeSlot{NewTimeSlot(9, 0, ""), NewTimeSlot(15, 0, "")},
	})
	require.NoError(t, err)

	require.NoError(t, store.UpdateSlotStatus(added.ID, added.Slots[0].ID, StatusCompleted))

	got, err := store.GetByID(added.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, got.Slots[0].Status)
	require.Equal(t, StatusPending, got.Slots[1].Status)

	err = store.UpdateSlotStatus(added.ID, "no-such-slot", StatusCompleted)
	require.ErrorContains(t, err, "not found")
}

func TestStoreListFilters(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	_, err := store.Add(Reminder{Title: "a", ScheduledTime: base, Repeat: RepeatDaily})
	require.NoError(t, err)
	b, err := store.Add(Reminder{Title: "b", ScheduledTime: base.Add(time.Hour)})
	require.NoError(t, err)
	require.NoError(t, store.UpdateStatus(b.ID, StatusCompleted))

	all, err := store.List(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "a", all[0].Title, "ordered by scheduled time")

	pending, err := store.List(Filter{Status: StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "a", pending[0].Title)

	daily, err := store.List(Filter{Repeat: RepeatDaily})
	require.NoError(t, err)
	require.Len(t, daily, 1)

	cutoff := base.Add(30 * time.Minute)
	due, err := store.List(Filter{DueBefore: &cutoff})
	require.NoError(t, err)
	require.Len(t, due, 1)
}

func TestStoreGetDueUsesDerivedStatus(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	// Single-occurrence, past and pending: due.
	_, err := store.Add(Reminder{Title: "late", ScheduledTime: now.Add(-time.Hour)})
	require.NoError(t, err)

	// Single-occurrence, past but completed: not due.
	done, err := store.Add(Reminder{Title: "done", ScheduledTime: now.Add(-time.Hour)})
	require.NoError(t, err)
	require.NoError(t, store.UpdateStatus(done.ID, StatusCompleted))

	// Multi-time with one late pending slot: due.
	_, err = store.Add(Reminder{
		Title:         "multi",
		ScheduledTime: now,
		MultiTime:     true,
		Slots:         []TimeSlot{NewTimeSlot(8, 0, ""), NewTimeSlot(20, 0, "")},
	})
	require.NoError(t, err)

	due, err := store.GetDue(now)
	require.NoError(t, err)
	require.Len(t, due, 2)
}

func TestStoreUpdateReplacesSlots(t *testing.T) {
	store := newTestStore(t)

	added, err := store.Add(Reminder{
		Title:         "hydrate",
		ScheduledTime: time.Now().UTC(),
		MultiTime:     true,
		Slots:         []TimeSlot{NewTimeSlot(10, 0, "")},
	})
	require.NoError(t, err)

	title := "hydrate more"
	slots := []TimeSlot{NewTimeSlot(9, 0, ""), NewTimeSlot(13, 0, ""), NewTimeSlot(17, 0, "")}
	updated, err := store.Update(added.ID, UpdateFields{Title: &title, Slots: &slots})
	require.NoError(t, err)
	require.Equal(t, "hydrate more", updated.Title)
	require.Len(t, updated.Slots, 3)
	require.Equal(t, TimeOfDay{Hour: 13}, updated.Slots[1].Time)
}

func TestStoreDeleteCascadesSlots(t *testing.T) {
	store := newTestStore(t)

	added, err := store.Add(Reminder{
		Title:         "walk dog",
		ScheduledTime: time.Now().UTC(),
		MultiTime:     true,
		Slots:         []TimeSlot{NewTimeSlot(7, 30, ""), NewTimeSlot(18, 30, "")},
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(added.ID))

	var count int
	require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM time_slots`).Scan(&count))
	require.Zero(t, count)
}
