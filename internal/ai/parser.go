package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/notadequate/remindd/internal/reminder"
)

const parseSystemPrompt = `You turn natural language into reminder records. Respond with ONLY a JSON object, no prose, no code fences, in this shape:

{
  "confidence": 0.0-1.0,
  "reminders": [
    {
      "title": "short imperative title",
      "description": "optional detail",
      "date": "YYYY-MM-DD (optional, omit for today)",
      "time": "HH:MM (24h, optional)",
      "repeat": "none|daily|weekly|monthly",
      "times": ["HH:MM", ...]  // only when the reminder has several occurrences per day
    }
  ]
}

Use "times" for anything that happens more than once a day (medication doses, hydration). Confidence reflects how sure you are that the input describes reminders at all.`

const imageParsePrompt = `Extract every reminder-worthy item from this image (appointments, deadlines, events, schedules) and respond with the JSON object described in your instructions.`

// ParseResult is the outcome of an AI parse: candidate reminders plus the
// model's confidence that the input described reminders.
type ParseResult struct {
	Reminders  []reminder.Reminder `json:"reminders"`
	Confidence float64             `json:"confidence"`
}

// ProviderStatus describes whether reminder generation is currently
// possible, and why not when it isn't.
type ProviderStatus struct {
	Provider    string `json:"provider"`
	CanGenerate bool   `json:"can_generate"`
	Reason      string `json:"reason,omitempty"`
}

// Parser turns free text or images into candidate reminders via an AI
// provider.
type Parser struct {
	provider    Provider
	model       string
	maxTokens   int
	temperature float64
	now         func() time.Time
}

// NewParser creates a Parser on top of a provider.
func NewParser(provider Provider, model string, maxTokens int, temperature float64) *Parser {
	return &Parser{
		provider:    provider,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		now:         time.Now,
	}
}

// Status reports whether this parser can generate reminders right now.
// Callers are expected to check it before offering AI generation, so a
// missing setup routes to a "needs setup" path rather than a request error.
func (p *Parser) Status() ProviderStatus {
	if p.provider == nil {
		return ProviderStatus{CanGenerate: false, Reason: "no AI provider configured"}
	}
	return ProviderStatus{Provider: p.provider.Name(), CanGenerate: true}
}

// ImageStatus is like Status but also requires vision support.
func (p *Parser) ImageStatus() ProviderStatus {
	st := p.Status()
	if !st.CanGenerate {
		return st
	}
	if !p.provider.SupportsVision() {
		return ProviderStatus{
			Provider:    p.provider.Name(),
			CanGenerate: false,
			Reason:      fmt.Sprintf("provider %s cannot read images", p.provider.Name()),
		}
	}
	return st
}

// ParseText extracts candidate reminders from free text.
func (p *Parser) ParseText(ctx context.Context, text string) (*ParseResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is required")
	}
	if st := p.Status(); !st.CanGenerate {
		return nil, fmt.Errorf("AI parsing unavailable: %s", st.Reason)
	}

	now := p.now()
	userPrompt := fmt.Sprintf("Current date and time: %s\n\nInput:\n%s",
		now.Format("Monday, 2006-01-02 15:04"), text)

	return p.parse(ctx, Message{Role: "user", Content: userPrompt})
}

// ParseImage extracts candidate reminders from an image. An optional
// prompt narrows what to look for.
func (p *Parser) ParseImage(ctx context.Context, imageData []byte, prompt string) (*ParseResult, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("image data is required")
	}
	if st := p.ImageStatus(); !st.CanGenerate {
		return nil, fmt.Errorf("AI image parsing unavailable: %s", st.Reason)
	}

	now := p.now()
	content := imageParsePrompt
	if strings.TrimSpace(prompt) != "" {
		content = prompt
	}
	content = fmt.Sprintf("Current date and time: %s\n\n%s",
		now.Format("Monday, 2006-01-02 15:04"), content)

	return p.parse(ctx, Message{Role: "user", Content: content, Images: [][]byte{imageData}})
}

func (p *Parser) parse(ctx context.Context, msg Message) (*ParseResult, error) {
	resp, err := p.provider.SendMessage(ctx, MessageRequest{
		Messages:    []Message{msg},
		System:      parseSystemPrompt,
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("AI request failed: %w", err)
	}

	return p.decodeResult(resp.Content)
}

// candidate is the wire schema the model is asked to produce.
type candidate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Repeat      string   `json:"repeat"`
	Times       []string `json:"times"`
}

type parseEnvelope struct {
	Confidence float64     `json:"confidence"`
	Reminders  []candidate `json:"reminders"`
}

func (p *Parser) decodeResult(content string) (*ParseResult, error) {
	raw := extractJSON(content)

	var envelope parseEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		// Models wrap or mangle JSON often enough that a repair pass is
		// worth it before giving up.
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return nil, fmt.Errorf("failed to parse AI response: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse repaired AI response: %w", err)
		}
	}

	result := &ParseResult{Confidence: clamp01(envelope.Confidence)}
	now := p.now()

	for _, c := range envelope.Reminders {
		if strings.TrimSpace(c.Title) == "" {
			continue
		}
		r, err := c.toReminder(now)
		if err != nil {
			continue
		}
		result.Reminders = append(result.Reminders, r)
	}

	if len(result.Reminders) == 0 {
		return nil, fmt.Errorf("no reminders found in the input")
	}
	return result, nil
}

func (c candidate) toReminder(now time.Time) (reminder.Reminder, error) {
	r := reminder.Reminder{
		Title:                strings.TrimSpace(c.Title),
		Description:          strings.TrimSpace(c.Description),
		Status:               reminder.StatusPending,
		Repeat:               reminder.RepeatNone,
		NotificationsEnabled: true,
	}

	switch c.Repeat {
	case reminder.RepeatDaily, reminder.RepeatWeekly, reminder.RepeatMonthly:
		r.Repeat = c.Repeat
	}

	base := now
	if c.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", c.Date, now.Location())
		if err != nil {
			return r, fmt.Errorf("invalid date %q: %w", c.Date, err)
		}
		base = d
	}

	if len(c.Times) > 1 {
		r.MultiTime = true
		for _, ts := range c.Times {
			hour, minute, err := parseClock(ts)
			if err != nil {
				return r, err
			}
			r.Slots = append(r.Slots, reminder.NewTimeSlot(hour, minute, ""))
		}
		first := r.Slots[0].Time
		r.ScheduledTime = time.Date(base.Year(), base.Month(), base.Day(),
			first.Hour, first.Minute, 0, 0, now.Location())
		return r, nil
	}

	clock := c.Time
	if clock == "" && len(c.Times) == 1 {
		clock = c.Times[0]
	}

	hour, minute := 9, 0
	if clock != "" {
		var err error
		hour, minute, err = parseClock(clock)
		if err != nil {
			return r, err
		}
	}

	r.ScheduledTime = time.Date(base.Year(), base.Month(), base.Day(),
		hour, minute, 0, 0, now.Location())

	// Without an explicit date, a time that already passed today means
	// tomorrow.
	if c.Date == "" && r.ScheduledTime.Before(now) {
		r.ScheduledTime = r.ScheduledTime.AddDate(0, 0, 1)
	}

	return r, nil
}

func parseClock(s string) (hour, minute int, err error) {
	t, parseErr := time.Parse("15:04", strings.TrimSpace(s))
	if parseErr != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, parseErr)
	}
	return t.Hour(), t.Minute(), nil
}

// extractJSON strips code fences and surrounding prose, keeping the
// outermost JSON object.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			return content[start : end+1]
		}
	}
	return content
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
