package space

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notadequate/remindd/internal/reminder"
)

func newTestStores(t *testing.T) (*reminder.Store, *Store) {
	t.Helper()
	rs, err := reminder.NewStore(filepath.Join(t.TempDir(), "reminders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rs.Close() })
	return rs, NewStore(rs.DB())
}

func TestSpaceCRUD(t *testing.T) {
	_, spaces := newTestStores(t)

	work, err := spaces.Add("work")
	require.NoError(t, err)
	require.NotZero(t, work.ID)

	_, err = spaces.Add("home")
	require.NoError(t, err)

	all, err := spaces.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "home", all[0].Name, "ordered by name")

	require.NoError(t, spaces.Rename(work.ID, "office"))
	got, err := spaces.GetByID(work.ID)
	require.NoError(t, err)
	require.Equal(t, "office", got.Name)

	require.NoError(t, spaces.Delete(work.ID))
	_, err = spaces.GetByID(work.ID)
	require.ErrorContains(t, err, "not found")
}

func TestSpaceAddValidation(t *testing.T) {
	_, spaces := newTestStores(t)

	_, err := spaces.Add("")
	require.ErrorContains(t, err, "name is required")
}

func TestDeleteSpaceNullsReminderReference(t *testing.T) {
	reminders, spaces := newTestStores(t)

	sp, err := spaces.Add("errands")
	require.NoError(t, err)

	added, err := reminders.Add(reminder.Reminder{
		Title:         "post office",
		ScheduledTime: time.Now().UTC(),
		SpaceID:       &sp.ID,
	})
	require.NoError(t, err)

	require.NoError(t, spaces.Delete(sp.ID))

	got, err := reminders.GetByID(added.ID)
	require.NoError(t, err)
	require.Nil(t, got.SpaceID)
}
