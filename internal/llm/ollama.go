package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxOllamaResponse bounds how much of a reply body is read.
const maxOllamaResponse = 4 << 20

// OllamaProvider talks to a local Ollama server through /api/chat with
// streaming off, so each call is one request and one JSON reply.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider creates a provider for the Ollama server at baseURL.
func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
	Error           string        `json:"error"`
}

// Ollama done_reason values.
const (
	ollamaDoneStop   = "stop"
	ollamaDoneLength = "length"
)

// ollamaRequest maps a completion request onto the chat API. JSON mode
// becomes format "json", which insights generation relies on.
func ollamaRequest(model string, req CompletionRequest) ollamaChatRequest {
	out := ollamaChatRequest{
		Model:    model,
		Messages: make([]ollamaMessage, 0, len(req.Messages)),
		Options: &ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
	for _, m := range req.Messages {
		out.Messages = append(out.Messages, ollamaMessage{Role: string(m.Role), Content: m.Content})
	}
	if req.JSONMode {
		out.Format = "json"
	}
	return out
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	body, err := json.Marshal(ollamaRequest(model, req))
	if err != nil {
		return nil, fmt.Errorf("encoding ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer httpResp.Body.Close()

	var reply ollamaChatResponse
	decodeErr := json.NewDecoder(io.LimitReader(httpResp.Body, maxOllamaResponse)).Decode(&reply)

	// Ollama reports failures such as an unknown model as {"error": "..."}
	// alongside a non-200 status.
	if reply.Error != "" {
		return nil, fmt.Errorf("ollama error (status %d): %s", httpResp.StatusCode, reply.Error)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", httpResp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding ollama response: %w", decodeErr)
	}
	if !reply.Done {
		return nil, fmt.Errorf("ollama returned an unfinished response")
	}
	if reply.DoneReason == ollamaDoneLength {
		return nil, fmt.Errorf("ollama %s: %w", model, ErrTruncated)
	}

	reason := reply.DoneReason
	if reason == "" {
		reason = ollamaDoneStop
	}
	if reply.Model != "" {
		model = reply.Model
	}
	return &CompletionResponse{
		Content:      reply.Message.Content,
		InputTokens:  reply.PromptEvalCount,
		OutputTokens: reply.EvalCount,
		Model:        model,
		FinishReason: reason,
	}, nil
}
