package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"
)

const telegramAPI = "https://api.telegram.org"

// TelegramSender delivers notifications via the Telegram Bot API,
// rendered as HTML messages.
type TelegramSender struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewTelegramSender creates a new Telegram sender.
func NewTelegramSender(botToken, chatID string) *TelegramSender {
	return &TelegramSender{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramAPI,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type telegramSendRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// render builds the HTML message body. Titles and details are user
// input and get escaped so they cannot break Telegram's HTML parsing.
func (t *TelegramSender) render(n Notification) string {
	msg := fmt.Sprintf("<b>⏰ %s</b>", html.EscapeString(n.Title))
	if n.Detail != "" {
		msg += fmt.Sprintf("\n<i>%s</i>", html.EscapeString(n.Detail))
	}
	msg += fmt.Sprintf("\nDue: %s", n.At.Format("Mon Jan 2 15:04"))
	return msg
}

// Send implements Sender.
func (t *TelegramSender) Send(n Notification) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)

	payload := telegramSendRequest{
		ChatID:    t.chatID,
		Text:      t.render(n),
		ParseMode: "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram request for %q: %w", n.Title, err)
	}

	resp, err := t.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send telegram message for %q: %w", n.Title, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read telegram response: %w", err)
	}

	var tgResp telegramResponse
	if err := json.Unmarshal(respBody, &tgResp); err != nil {
		return fmt.Errorf("telegram returned HTTP %d with an unreadable body", resp.StatusCode)
	}

	if !tgResp.OK {
		return fmt.Errorf("telegram rejected notification for %q: %s", n.Title, tgResp.Description)
	}

	return nil
}
