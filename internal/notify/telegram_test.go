package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func telegramTestServer(t *testing.T, handler http.HandlerFunc) (*TelegramSender, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sender := NewTelegramSender("test-token", "42")
	sender.baseURL = srv.URL
	return sender, srv
}

func TestTelegramSendRendersEscapedHTML(t *testing.T) {
	var got telegramSendRequest
	sender, _ := telegramTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(telegramResponse{OK: true})
	})

	n := Notification{
		Title:  "take <b>meds</b>",
		Detail: "2 pills & water",
		At:     time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sender.Send(n))

	require.Equal(t, "42", got.ChatID)
	require.Equal(t, "HTML", got.ParseMode)
	require.Contains(t, got.Text, "take &lt;b&gt;meds&lt;/b&gt;")
	require.Contains(t, got.Text, "2 pills &amp; water")
	require.Contains(t, got.Text, "Mon Mar 10 08:00")
	require.NotContains(t, got.Text, "<b>meds</b>")
}

func TestTelegramSendAPIError(t *testing.T) {
	sender, _ := telegramTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(telegramResponse{OK: false, Description: "chat not found"})
	})

	err := sender.Send(Notification{Title: "pay rent", At: time.Now()})
	require.ErrorContains(t, err, "chat not found")
	require.ErrorContains(t, err, "pay rent")
}

func TestTelegramSendUnreadableBody(t *testing.T) {
	sender, _ := telegramTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	err := sender.Send(Notification{Title: "pay rent", At: time.Now()})
	require.ErrorContains(t, err, "HTTP 502")
}
