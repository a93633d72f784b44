package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notadequate/remindd/internal/reminder"
)

type fakeProvider struct {
	response string
	vision   bool
	lastReq  MessageRequest
}

func (f *fakeProvider) SendMessage(_ context.Context, req MessageRequest) (*MessageResponse, error) {
	f.lastReq = req
	return &MessageResponse{Content: f.response}, nil
}

func (f *fakeProvider) Name() string         { return "fake" }
func (f *fakeProvider) SupportsVision() bool { return f.vision }
func (f *fakeProvider) Close() error         { return nil }

func newTestParser(response string, vision bool) (*Parser, *fakeProvider) {
	fp := &fakeProvider{response: response, vision: vision}
	p := NewParser(fp, "test-model", 1024, 0.2)
	p.now = func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return p, fp
}

func TestParseTextSingleReminder(t *testing.T) {
	p, _ := newTestParser(`{
		"confidence": 0.9,
		"reminders": [
			{"title": "dentist", "description": "dr smith", "date": "2025-03-12", "time": "14:30", "repeat": "none"}
		]
	}`, false)

	result, err := p.ParseText(context.Background(), "dentist wednesday at 2:30pm")
	require.NoError(t, err)
	require.Equal(t, 0.9, result.Confidence)
	require.Len(t, result.Reminders, 1)

	r := result.Reminders[0]
	require.Equal(t, "dentist", r.Title)
	require.False(t, r.MultiTime)
	require.Equal(t, time.Date(2025, 3, 12, 14, 30, 0, 0, time.UTC), r.ScheduledTime)
	require.Equal(t, reminder.StatusPending, r.Status)
	require.True(t, r.NotificationsEnabled)
}

func TestParseTextMultiTimeReminder(t *testing.T) {
	p, _ := newTestParser(`{
		"confidence": 0.8,
		"reminders": [
			{"title": "take antibiotics", "repeat": "daily", "times": ["08:00", "14:00", "20:00"]}
		]
	}`, false)

	result, err := p.ParseText(context.Background(), "antibiotics three times a day")
	require.NoError(t, err)
	require.Len(t, result.Reminders, 1)

	r := result.Reminders[0]
	require.True(t, r.MultiTime)
	require.Len(t, r.Slots, 3)
	require.Equal(t, reminder.TimeOfDay{Hour: 14}, r.Slots[1].Time)
	require.Equal(t, reminder.RepeatDaily, r.Repeat)
	for _, s := range r.Slots {
		require.Equal(t, reminder.StatusPending, s.Status)
		require.NotEmpty(t, s.ID)
	}
}

func TestParsePassedTimeRollsToTomorrow(t *testing.T) {
	// now is 12:00; a bare 09:00 means tomorrow morning.
	p, _ := newTestParser(`{
		"confidence": 0.7,
		"reminders": [{"title": "standup", "time": "09:00"}]
	}`, false)

	result, err := p.ParseText(context.Background(), "standup at 9")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), result.Reminders[0].ScheduledTime)
}

func TestParseRepairsSloppyJSON(t *testing.T) {
	// Trailing comma plus a code fence: both common model output defects.
	p, _ := newTestParser("```json\n{\"confidence\": 0.6, \"reminders\": [{\"title\": \"call mom\", \"time\": \"18:00\",}]}\n```", false)

	result, err := p.ParseText(context.Background(), "call mom tonight")
	require.NoError(t, err)
	require.Len(t, result.Reminders, 1)
	require.Equal(t, "call mom", result.Reminders[0].Title)
}

func TestParseConfidenceClamped(t *testing.T) {
	p, _ := newTestParser(`{"confidence": 1.7, "reminders": [{"title": "x", "time": "18:00"}]}`, false)

	result, err := p.ParseText(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, 1.0, result.Confidence)
}

func TestParseNoRemindersFound(t *testing.T) {
	p, _ := newTestParser(`{"confidence": 0.1, "reminders": []}`, false)

	_, err := p.ParseText(context.Background(), "the weather is nice")
	require.ErrorContains(t, err, "no reminders found")
}

func TestParseImageRequiresVision(t *testing.T) {
	p, _ := newTestParser(`{}`, false)

	_, err := p.ParseImage(context.Background(), []byte{0x89, 0x50}, "")
	require.ErrorContains(t, err, "cannot read images")
}

func TestParseImageSendsAttachment(t *testing.T) {
	p, fp := newTestParser(`{
		"confidence": 0.75,
		"reminders": [{"title": "pay invoice", "date": "2025-03-15", "time": "10:00"}]
	}`, true)

	result, err := p.ParseImage(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47}, "look for bills")
	require.NoError(t, err)
	require.Len(t, result.Reminders, 1)
	require.Len(t, fp.lastReq.Messages, 1)
	require.Len(t, fp.lastReq.Messages[0].Images, 1)
	require.Contains(t, fp.lastReq.Messages[0].Content, "look for bills")
}

func TestStatusGates(t *testing.T) {
	p, _ := newTestParser(`{}`, false)
	st := p.Status()
	require.True(t, st.CanGenerate)
	require.Equal(t, "fake", st.Provider)

	imgSt := p.ImageStatus()
	require.False(t, imgSt.CanGenerate)
	require.NotEmpty(t, imgSt.Reason)

	nilParser := NewParser(nil, "m", 1, 0)
	require.False(t, nilParser.Status().CanGenerate)
}
