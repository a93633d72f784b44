package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "remindd"
	serverVersion = "1.0.0"
)

// Server is the MCP server for reminder management.
type Server struct {
	mcpServer *server.MCPServer
	store     *Store
	now       func() time.Time
}

// NewServer creates a new reminder MCP server backed by the given store.
func NewServer(store *Store) *Server {
	s := &Server{
		store: store,
		now:   time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// add_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a new reminder with a title, scheduled time, optional description, repeat rule and daily time slots"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("scheduled_time", mcp.Required(), mcp.Description("Scheduled time in RFC3339 format (e.g. 2025-01-15T09:00:00Z)")),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithString("repeat", mcp.Description("Repeat rule: none, daily, weekly, monthly, custom (default: none)")),
			mcp.WithNumber("custom_every", mcp.Description("Custom repeat interval count (required when repeat is custom)")),
			mcp.WithString("custom_unit", mcp.Description("Custom repeat interval unit: minutes, hours, days, weeks")),
			mcp.WithString("times", mcp.Description("Comma-separated daily time slots in HH:MM, e.g. 08:00,14:00,20:00 (makes the reminder multi-time)")),
			mcp.WithNumber("space_id", mcp.Description("Optional space ID to file the reminder under")),
		),
		s.handleAddReminder,
	)

	// list_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List all reminders, optionally filtered by status, repeat rule or space"),
			mcp.WithString("status", mcp.Description("Filter by status: pending, completed, or empty for all")),
			mcp.WithString("repeat", mcp.Description("Filter by repeat rule: none, daily, weekly, monthly, custom")),
			mcp.WithNumber("space_id", mcp.Description("Filter by space ID")),
		),
		s.handleListReminders,
	)

	// get_due_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("get_due_reminders",
			mcp.WithDescription("Get all reminders that are overdue right now (pending with a scheduled time or slot in the past)"),
		),
		s.handleGetDueReminders,
	)

	// get_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("get_reminder",
			mcp.WithDescription("Get a single reminder by ID, including its time slots and derived display status"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleGetReminder,
	)

	// complete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("complete_reminder",
			mcp.WithDescription("Mark a reminder as completed. For multi-time reminders every slot is completed."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleCompleteReminder,
	)

	// reopen_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("reopen_reminder",
			mcp.WithDescription("Reopen a completed reminder. For multi-time reminders every slot goes back to pending."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleReopenReminder,
	)

	// toggle_time_slot
	s.mcpServer.AddTool(
		mcp.NewTool("toggle_time_slot",
			mcp.WithDescription("Flip a single time slot of a multi-time reminder between pending and completed"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("slot_id", mcp.Required(), mcp.Description("Time slot ID")),
		),
		s.handleToggleTimeSlot,
	)

	// complete_all_slots
	s.mcpServer.AddTool(
		mcp.NewTool("complete_all_slots",
			mcp.WithDescription("Complete every time slot of a multi-time reminder in one call"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleCompleteAllSlots,
	)

	// delete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently, including its time slots"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	// update_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("update_reminder",
			mcp.WithDescription("Update a reminder's fields (title, description, scheduled_time, repeat, times)"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithString("scheduled_time", mcp.Description("New scheduled time in RFC3339 format")),
			mcp.WithString("repeat", mcp.Description("New repeat rule: none, daily, weekly, monthly, custom")),
			mcp.WithNumber("custom_every", mcp.Description("New custom repeat interval count")),
			mcp.WithString("custom_unit", mcp.Description("New custom repeat interval unit: minutes, hours, days, weeks")),
			mcp.WithString("times", mcp.Description("New comma-separated daily time slots in HH:MM (replaces existing slots)")),
		),
		s.handleUpdateReminder,
	)
}

// reminderView is the JSON shape returned by read tools. It carries the
// derived presentation fields alongside the stored reminder. Progress is
// nil for single-occurrence reminders and 0 for an all-pending slot set.
type reminderView struct {
	Reminder
	DisplayStatus DisplayStatus `json:"display_status"`
	Progress      *float64      `json:"progress,omitempty"`
	NextSlotID    string        `json:"next_slot_id,omitempty"`
	TimeUntil     string        `json:"time_until,omitempty"`
}

func (s *Server) view(r *Reminder) reminderView {
	now := s.now()
	v := reminderView{
		Reminder:      *r,
		DisplayStatus: r.DisplayStatusAt(now),
	}
	if r.MultiTime {
		progress := Progress(r.Slots)
		v.Progress = &progress
		if next, ok := NextActionableSlot(r.Slots, now); ok {
			v.NextSlotID = next.ID
			v.TimeUntil = FormatTimeUntil(next.Time.On(now), now)
		}
	} else if r.Status == StatusPending {
		v.TimeUntil = FormatTimeUntil(r.ScheduledTime, now)
	}
	return v
}

func (s *Server) views(reminders []Reminder) []reminderView {
	out := make([]reminderView, 0, len(reminders))
	for i := range reminders {
		out = append(out, s.view(&reminders[i]))
	}
	return out
}

func (s *Server) handleAddReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := strings.TrimSpace(req.GetString("title", ""))
	scheduledStr := req.GetString("scheduled_time", "")

	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	if scheduledStr == "" {
		return mcp.NewToolResultError("scheduled_time is required"), nil
	}

	scheduled, err := time.Parse(time.RFC3339, scheduledStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scheduled_time format: %v (use RFC3339, e.g. 2025-01-15T09:00:00Z)", err)), nil
	}

	r := Reminder{
		Title:                title,
		Description:          req.GetString("description", ""),
		ScheduledTime:        scheduled,
		Repeat:               RepeatNone,
		Status:               StatusPending,
		NotificationsEnabled: true,
	}

	if repeat := req.GetString("repeat", ""); repeat != "" {
		r.Repeat = repeat
	}
	if r.Repeat == RepeatCustom {
		every := req.GetInt("custom_every", 0)
		unit := req.GetString("custom_unit", "")
		if every < 1 || unit == "" {
			return mcp.NewToolResultError("custom repeat needs custom_every >= 1 and custom_unit"), nil
		}
		r.Custom = &CustomInterval{Every: every, Unit: unit}
	}

	if times := req.GetString("times", ""); times != "" {
		slots, err := parseSlotList(times)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r.MultiTime = true
		r.Slots = slots
	}

	if id := req.GetInt("space_id", 0); id > 0 {
		spaceID := int64(id)
		r.SpaceID = &spaceID
	}

	added, err := s.store.Add(r)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}

	return resultJSON(s.view(added))
}

func (s *Server) handleListReminders(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := Filter{
		Status: req.GetString("status", ""),
		Repeat: req.GetString("repeat", ""),
	}
	if id := req.GetInt("space_id", 0); id > 0 {
		spaceID := int64(id)
		f.SpaceID = &spaceID
	}

	reminders, err := s.store.List(f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	return resultJSON(s.views(reminders))
}

func (s *Server) handleGetDueReminders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders, err := s.store.GetDue(s.now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get due reminders: %v", err)), nil
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No due reminders."), nil
	}

	return resultJSON(s.views(reminders))
}

func (s *Server) handleGetReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	r, err := s.store.GetByID(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get reminder: %v", err)), nil
	}

	return resultJSON(s.view(r))
}

func (s *Server) handleCompleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setStatus(req, StatusCompleted, "completed")
}

func (s *Server) handleReopenReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setStatus(req, StatusPending, "reopened")
}

func (s *Server) setStatus(req mcp.CallToolRequest, status, verb string) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	r, err := s.store.GetByID(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get reminder: %v", err)), nil
	}

	if r.MultiTime {
		for i := range r.Slots {
			if r.Slots[i].Status == status {
				continue
			}
			if err := s.store.UpdateSlotStatus(id, r.Slots[i].ID, status); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to update slot: %v", err)), nil
			}
		}
	}
	if err := s.store.UpdateStatus(id, status); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d %s.", id, verb)), nil
}

func (s *Server) handleToggleTimeSlot(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}
	slotID := req.GetString("slot_id", "")
	if slotID == "" {
		return mcp.NewToolResultError("slot_id is required"), nil
	}

	r, err := s.store.GetByID(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get reminder: %v", err)), nil
	}

	slot := r.SlotByID(slotID)
	if slot == nil {
		return mcp.NewToolResultError(fmt.Sprintf("reminder %d has no slot %s", id, slotID)), nil
	}

	next := ToggleStatus(slot.Status)
	if err := s.store.UpdateSlotStatus(id, slotID, next); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update slot: %v", err)), nil
	}
	slot.Status = next

	// Keep the stored aggregate in sync with the slot states.
	agg := StatusPending
	if AggregateStatus(r.Slots, s.now()) == DisplayCompleted {
		agg = StatusCompleted
	}
	if err := s.store.UpdateStatus(id, agg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update reminder: %v", err)), nil
	}
	r.Status = agg

	return resultJSON(s.view(r))
}

func (s *Server) handleCompleteAllSlots(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	r, err := s.store.GetByID(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get reminder: %v", err)), nil
	}
	if !r.MultiTime {
		return mcp.NewToolResultError(fmt.Sprintf("reminder %d is not multi-time; use complete_reminder", id)), nil
	}

	for _, slotID := range CompleteAll(r.Slots) {
		if err := s.store.UpdateSlotStatus(id, slotID, StatusCompleted); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to update slot: %v", err)), nil
		}
	}
	if err := s.store.UpdateStatus(id, StatusCompleted); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update reminder: %v", err)), nil
	}
	r.Status = StatusCompleted

	return resultJSON(s.view(r))
}

func (s *Server) handleDeleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.store.Delete(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d deleted.", id)), nil
}

func (s *Server) handleUpdateReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	var fields UpdateFields

	if title := req.GetString("title", ""); title != "" {
		fields.Title = &title
	}
	if description := req.GetString("description", ""); description != "" {
		fields.Description = &description
	}
	if scheduledStr := req.GetString("scheduled_time", ""); scheduledStr != "" {
		scheduled, err := time.Parse(time.RFC3339, scheduledStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid scheduled_time format: %v", err)), nil
		}
		fields.ScheduledTime = &scheduled
	}
	if repeat := req.GetString("repeat", ""); repeat != "" {
		fields.Repeat = &repeat
		if repeat == RepeatCustom {
			every := req.GetInt("custom_every", 0)
			unit := req.GetString("custom_unit", "")
			if every < 1 || unit == "" {
				return mcp.NewToolResultError("custom repeat needs custom_every >= 1 and custom_unit"), nil
			}
			fields.Custom = &CustomInterval{Every: every, Unit: unit}
		}
	}
	if times := req.GetString("times", ""); times != "" {
		slots, err := parseSlotList(times)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fields.Slots = &slots
	}

	updated, err := s.store.Update(id, fields)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update reminder: %v", err)), nil
	}

	return resultJSON(s.view(updated))
}

func requireID(req mcp.CallToolRequest) (int64, *mcp.CallToolResult) {
	idFloat := req.GetFloat("id", -1)
	if idFloat < 0 {
		return 0, mcp.NewToolResultError("id is required and must be a positive number")
	}
	return int64(idFloat), nil
}

func resultJSON(v any) (*mcp.CallToolResult, error) {
	output, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

// parseSlotList parses a comma-separated HH:MM list into pending time slots.
func parseSlotList(times string) ([]TimeSlot, error) {
	var slots []TimeSlot
	for _, part := range strings.Split(times, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		hour, minute, err := parseClockTime(part)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q: use HH:MM", part)
		}
		slots = append(slots, NewTimeSlot(hour, minute, ""))
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("times must contain at least one HH:MM entry")
	}
	return slots, nil
}

func parseClockTime(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("out of range")
	}
	return hour, minute, nil
}
