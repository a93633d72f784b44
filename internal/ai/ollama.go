package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/notadequate/remindd/internal/config"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaProvider implements Provider for local Ollama models. With a
// multimodal model configured it also handles image input.
type OllamaProvider struct {
	client      *http.Client
	baseURL     string
	visionModel string
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg config.OllamaConfig) (*OllamaProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120
	}

	return &OllamaProvider{
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		baseURL:     baseURL,
		visionModel: cfg.VisionModel,
	}, nil
}

// ollamaChatRequest represents the Ollama API chat request.
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"` // base64-encoded
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaChatResponse represents the Ollama API chat response.
type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	DoneReason      string        `json:"done_reason,omitempty"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

// SendMessage sends a chat request to the Ollama API. When any message
// carries images, the configured vision model is used instead of the
// requested text model.
func (p *OllamaProvider) SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	messages := make([]ollamaMessage, 0, len(req.Messages)+1)
	hasImages := false

	if req.System != "" {
		messages = append(messages, ollamaMessage{
			Role:    "system",
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		m := ollamaMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
		for _, img := range msg.Images {
			m.Images = append(m.Images, base64.StdEncoding.EncodeToString(img))
			hasImages = true
		}
		messages = append(messages, m)
	}

	model := req.Model
	if hasImages {
		if p.visionModel == "" {
			return nil, fmt.Errorf("no vision model configured for image input")
		}
		model = p.visionModel
	}

	ollamaReq := ollamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}

	body, err := json.Marshal(ollamaReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Ollama request failed (is Ollama running?): %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Ollama API error: %s (status %d)", string(respBody), resp.StatusCode)
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &MessageResponse{
		Content:    chatResp.Message.Content,
		StopReason: chatResp.DoneReason,
		Usage: Usage{
			InputTokens:  chatResp.PromptEvalCount,
			OutputTokens: chatResp.EvalCount,
		},
	}, nil
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// SupportsVision reports whether a multimodal model is configured.
func (p *OllamaProvider) SupportsVision() bool {
	return p.visionModel != ""
}

// Close releases resources (no-op for Ollama).
func (p *OllamaProvider) Close() error {
	return nil
}
