package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultOllamaEndpoint = "http://localhost:11434"
	defaultOllamaModel    = "llama3.2"
)

type ollamaOptions struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	NumCtx        int     `json:"num_ctx,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

// OllamaOptions configure an Ollama backend.
type OllamaOptions struct {
	BaseEndpoint string
	Model        string
	Temperature  float64
	HTTPClient   HTTPClient
}

// Ollama generates text with a local Ollama server through /api/chat.
type Ollama struct {
	endpoint   string
	model      string
	httpClient HTTPClient
	options    ollamaOptions
	logger     *zap.Logger
}

// NewOllama creates an Ollama backend. Empty options fall back to localhost and llama3.2.
func NewOllama(opts OllamaOptions, logger *zap.Logger) *Ollama {
	if opts.BaseEndpoint == "" {
		opts.BaseEndpoint = defaultOllamaEndpoint
	}
	if opts.Model == "" {
		opts.Model = defaultOllamaModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.2
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ollama{
		endpoint:   strings.TrimRight(opts.BaseEndpoint, "/") + "/api/chat",
		model:      opts.Model,
		httpClient: opts.HTTPClient,
		options: ollamaOptions{
			Temperature:   opts.Temperature,
			TopP:          0.9,
			RepeatPenalty: 1.05,
			NumCtx:        8192,
		},
		logger: logger,
	}
}

// Generate sends prompt as a single user turn and returns the assistant message.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	payload, err := json.Marshal(ollamaRequest{
		Model: o.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream:  false,
		Options: o.options,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ollama response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out ollamaResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama error: %s", out.Error)
	}
	if strings.TrimSpace(out.Message.Content) == "" {
		return "", fmt.Errorf("ollama returned an empty message")
	}

	o.logger.Debug("ollama generation finished",
		zap.String("model", o.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("response_len", len(out.Message.Content)),
		zap.Int64("latency_ms", elapsedMs(start)))
	return out.Message.Content, nil
}
