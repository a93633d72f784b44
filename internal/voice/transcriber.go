package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// HTTPTranscriber posts captured audio to a whisper-server style
// endpoint and returns the transcribed text.
type HTTPTranscriber struct {
	url      string
	language string
	client   *http.Client
}

// NewHTTPTranscriber creates a transcriber for the given endpoint.
func NewHTTPTranscriber(url, language string, timeout time.Duration) *HTTPTranscriber {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPTranscriber{
		url:      url,
		language: language,
		client:   &http.Client{Timeout: timeout},
	}
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Transcribe implements Transcriber.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "recording.wav")
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio: %w", err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("failed to write field: %w", err)
	}
	if t.language != "" {
		if err := writer.WriteField("language", t.language); err != nil {
			return "", fmt.Errorf("failed to write field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcription response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API error: %s (status %d)", string(respBody), resp.StatusCode)
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("failed to parse transcription response: %w", err)
	}
	if tr.Error != "" {
		return "", fmt.Errorf("transcription failed: %s", tr.Error)
	}

	return tr.Text, nil
}
