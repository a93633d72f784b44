package reminder

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed storage for reminders and their time slots.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at dbPath and ensures
// the schema exists.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS spaces (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT    NOT NULL UNIQUE,
			created_at TEXT    NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reminders (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			title                 TEXT    NOT NULL,
			description           TEXT    NOT NULL DEFAULT '',
			scheduled_time        TEXT    NOT NULL,
			repeat_type           TEXT    NOT NULL DEFAULT 'none',
			custom_every          INTEGER,
			custom_unit           TEXT,
			multi_time            INTEGER NOT NULL DEFAULT 0,
			status                TEXT    NOT NULL DEFAULT 'pending',
			notifications_enabled INTEGER NOT NULL DEFAULT 1,
			space_id              INTEGER REFERENCES spaces(id) ON DELETE SET NULL,
			created_at            TEXT    NOT NULL,
			updated_at            TEXT    NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS time_slots (
			id          TEXT    PRIMARY KEY,
			reminder_id INTEGER NOT NULL REFERENCES reminders(id) ON DELETE CASCADE,
			hour        INTEGER NOT NULL,
			minute      INTEGER NOT NULL,
			description TEXT    NOT NULL DEFAULT '',
			status      TEXT    NOT NULL DEFAULT 'pending',
			position    INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection so sibling stores (spaces) can
// share it.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Add inserts a new reminder with its slots and returns it with the
// assigned ID.
func (s *Store) Add(r Reminder) (*Reminder, error) {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if r.Repeat == "" {
		r.Repeat = RepeatNone
	}
	if r.Status == "" {
		r.Status = StatusPending
	}

	var customEvery, customUnit interface{}
	if r.Custom != nil {
		customEvery = r.Custom.Every
		customUnit = r.Custom.Unit
	}
	var spaceID interface{}
	if r.SpaceID != nil {
		spaceID = *r.SpaceID
	}

	result, err := s.db.Exec(`
		INSERT INTO reminders (title, description, scheduled_time, repeat_type,
			custom_every, custom_unit, multi_time, status, notifications_enabled,
			space_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.Title, r.Description, r.ScheduledTime.UTC().Format(time.RFC3339),
		r.Repeat, customEvery, customUnit, boolToInt(r.MultiTime), r.Status,
		boolToInt(r.NotificationsEnabled), spaceID,
		r.CreatedAt.Format(time.RFC3339), r.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to insert reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted ID: %w", err)
	}
	r.ID = id

	if err := s.insertSlots(r.ID, r.Slots); err != nil {
		return nil, err
	}

	return &r, nil
}

func (s *Store) insertSlots(reminderID int64, slots []TimeSlot) error {
	for i, slot := range slots {
		status := slot.Status
		if status == "" {
			status = StatusPending
		}
		if _, err := s.db.Exec(`
			INSERT INTO time_slots (id, reminder_id, hour, minute, description, status, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, slot.ID, reminderID, slot.Time.Hour, slot.Time.Minute, slot.Description, status, i); err != nil {
			return fmt.Errorf("failed to insert time slot: %w", err)
		}
	}
	return nil
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Status    string
	SpaceID   *int64
	Repeat    string
	DueBefore *time.Time
}

// List returns reminders matching the filter, ordered by scheduled time.
func (s *Store) List(f Filter) ([]Reminder, error) {
	var conds []string
	var args []interface{}

	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.SpaceID != nil {
		conds = append(conds, "space_id = ?")
		args = append(args, *f.SpaceID)
	}
	if f.Repeat != "" {
		conds = append(conds, "repeat_type = ?")
		args = append(args, f.Repeat)
	}
	if f.DueBefore != nil {
		conds = append(conds, "scheduled_time <= ?")
		args = append(args, f.DueBefore.UTC().Format(time.RFC3339))
	}

	query := `SELECT id, title, description, scheduled_time, repeat_type,
		custom_every, custom_unit, multi_time, status, notifications_enabled,
		space_id, created_at, updated_at FROM reminders`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY scheduled_time ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	reminders, err := scanReminders(rows)
	if err != nil {
		return nil, err
	}
	for i := range reminders {
		if err := s.loadSlots(&reminders[i]); err != nil {
			return nil, err
		}
	}
	return reminders, nil
}

// GetDue returns all reminders classified as overdue at now, covering
// both single-occurrence and multi-time reminders.
func (s *Store) GetDue(now time.Time) ([]Reminder, error) {
	all, err := s.List(Filter{})
	if err != nil {
		return nil, err
	}

	var due []Reminder
	for _, r := range all {
		if r.OverdueAt(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

// GetByID returns a single reminder with its slots.
func (s *Store) GetByID(id int64) (*Reminder, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, scheduled_time, repeat_type,
			custom_every, custom_unit, multi_time, status, notifications_enabled,
			space_id, created_at, updated_at
		FROM reminders WHERE id = ?
	`, id)

	r, err := scanReminder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reminder %d not found", id)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	if err := s.loadSlots(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) loadSlots(r *Reminder) error {
	rows, err := s.db.Query(`
		SELECT id, hour, minute, description, status
		FROM time_slots WHERE reminder_id = ? ORDER BY position ASC
	`, r.ID)
	if err != nil {
		return fmt.Errorf("failed to load time slots: %w", err)
	}
	defer rows.Close()

	r.Slots = nil
	for rows.Next() {
		var slot TimeSlot
		if err := rows.Scan(&slot.ID, &slot.Time.Hour, &slot.Time.Minute,
			&slot.Description, &slot.Status); err != nil {
			return fmt.Errorf("failed to scan time slot: %w", err)
		}
		r.Slots = append(r.Slots, slot)
	}
	return rows.Err()
}

// UpdateStatus sets the stored status of a single-occurrence reminder.
func (s *Store) UpdateStatus(id int64, status string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := s.db.Exec(`
		UPDATE reminders SET status = ?, updated_at = ? WHERE id = ?
	`, status, now, id)
	if err != nil {
		return fmt.Errorf("failed to update reminder status: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("reminder %d not found", id)
	}
	return nil
}

// UpdateSlotStatus sets the stored status of one time slot.
func (s *Store) UpdateSlotStatus(reminderID int64, slotID, status string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := s.db.Exec(`
		UPDATE time_slots SET status = ? WHERE reminder_id = ? AND id = ?
	`, status, reminderID, slotID)
	if err != nil {
		return fmt.Errorf("failed to update slot status: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("slot %s not found on reminder %d", slotID, reminderID)
	}

	if _, err := s.db.Exec(`UPDATE reminders SET updated_at = ? WHERE id = ?`, now, reminderID); err != nil {
		return fmt.Errorf("failed to touch reminder: %w", err)
	}
	return nil
}

// Delete removes a reminder; its slots cascade.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("reminder %d not found", id)
	}
	return nil
}

// UpdateFields holds optional fields for a partial update. A non-nil
// Slots pointer replaces the whole slot list.
type UpdateFields struct {
	Title                *string
	Description          *string
	ScheduledTime        *time.Time
	Repeat               *string
	Custom               *CustomInterval
	NotificationsEnabled *bool
	SpaceID              **int64
	Slots                *[]TimeSlot
}

// Update applies partial updates to a reminder.
func (s *Store) Update(id int64, fields UpdateFields) (*Reminder, error) {
	setClauses := []string{}
	args := []interface{}{}

	if fields.Title != nil {
		setClauses = append(setClauses, "title = ?")
		args = append(args, *fields.Title)
	}
	if fields.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *fields.Description)
	}
	if fields.ScheduledTime != nil {
		setClauses = append(setClauses, "scheduled_time = ?")
		args = append(args, fields.ScheduledTime.UTC().Format(time.RFC3339))
	}
	if fields.Repeat != nil {
		setClauses = append(setClauses, "repeat_type = ?")
		args = append(args, *fields.Repeat)
	}
	if fields.Custom != nil {
		setClauses = append(setClauses, "custom_every = ?", "custom_unit = ?")
		args = append(args, fields.Custom.Every, fields.Custom.Unit)
	}
	if fields.NotificationsEnabled != nil {
		setClauses = append(setClauses, "notifications_enabled = ?")
		args = append(args, boolToInt(*fields.NotificationsEnabled))
	}
	if fields.SpaceID != nil {
		setClauses = append(setClauses, "space_id = ?")
		if *fields.SpaceID != nil {
			args = append(args, **fields.SpaceID)
		} else {
			args = append(args, nil)
		}
	}

	if len(setClauses) > 0 {
		now := time.Now().UTC().Format(time.RFC3339)
		setClauses = append(setClauses, "updated_at = ?")
		args = append(args, now)

		query := "UPDATE reminders SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
		args = append(args, id)

		result, err := s.db.Exec(query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update reminder: %w", err)
		}
		n, _ := result.RowsAffected()
		if n == 0 {
			return nil, fmt.Errorf("reminder %d not found", id)
		}
	}

	if fields.Slots != nil {
		if _, err := s.db.Exec(`DELETE FROM time_slots WHERE reminder_id = ?`, id); err != nil {
			return nil, fmt.Errorf("failed to replace time slots: %w", err)
		}
		if err := s.insertSlots(id, *fields.Slots); err != nil {
			return nil, err
		}
		multi := boolToInt(len(*fields.Slots) > 0)
		if _, err := s.db.Exec(`UPDATE reminders SET multi_time = ? WHERE id = ?`, multi, id); err != nil {
			return nil, fmt.Errorf("failed to update multi_time flag: %w", err)
		}
	}

	return s.GetByID(id)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanReminders reads multiple rows into a slice of Reminder.
func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var reminders []Reminder
	for rows.Next() {
		r, err := scanReminderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row *sql.Row) (*Reminder, error) {
	return scanReminderRow(row)
}

func scanReminderRow(row rowScanner) (*Reminder, error) {
	var r Reminder
	var scheduledTime, createdAt, updatedAt string
	var customEvery sql.NullInt64
	var customUnit sql.NullString
	var spaceID sql.NullInt64
	var multiTime, notificationsEnabled int

	if err := row.Scan(&r.ID, &r.Title, &r.Description, &scheduledTime,
		&r.Repeat, &customEvery, &customUnit, &multiTime, &r.Status,
		&notificationsEnabled, &spaceID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	r.ScheduledTime, _ = time.Parse(time.RFC3339, scheduledTime)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	r.MultiTime = multiTime != 0
	r.NotificationsEnabled = notificationsEnabled != 0
	if customEvery.Valid && customUnit.Valid {
		r.Custom = &CustomInterval{Every: int(customEvery.Int64), Unit: customUnit.String}
	}
	if spaceID.Valid {
		v := spaceID.Int64
		r.SpaceID = &v
	}

	return &r, nil
}
