package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finxan/ai-service/internal/llm"
	"github.com/finxan/ai-service/internal/metrics"
)

// ErrGenerationFailed is the single failure signal for every backend-side
// problem. Use errors.As with *GenerationError for the details.
var ErrGenerationFailed = errors.New("generation failed")

var errEmptyResponse = errors.New("backend returned no text")

// Operation names the backend operation that was attempted.
type Operation string

const (
	OpSendMessage     Operation = "send_message"
	OpGenerateContent Operation = "generate_content"
)

// GenerationError carries the detail of a failed backend call for logging.
type GenerationError struct {
	Op       Operation
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s via %s: %v", e.Op, e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is makes every GenerationError match ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// Result is a successful completion.
type Result struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Model        string
}

// CallOption adjusts a single backend call.
type CallOption func(*llm.CompletionRequest)

// WithJSON asks the backend for a JSON object response.
func WithJSON() CallOption {
	return func(r *llm.CompletionRequest) { r.JSONMode = true }
}

// DefaultTemperature is the sampling temperature used for every call.
const DefaultTemperature = 0.7

// Gateway adapts a Provider to the two operations the chat pipeline needs.
// It holds no per-request state and is safe for concurrent use.
type Gateway struct {
	provider    llm.Provider
	model       string
	temperature float64
	metrics     *metrics.Metrics
}

// New creates a gateway. m may be nil.
func New(provider llm.Provider, model string, m *metrics.Metrics) *Gateway {
	return &Gateway{
		provider:    provider,
		model:       model,
		temperature: DefaultTemperature,
		metrics:     m,
	}
}

// Model returns the configured model name.
func (g *Gateway) Model() string { return g.model }

// SendMessage primes the backend with history and submits message as the
// final user turn.
func (g *Gateway) SendMessage(ctx context.Context, history []llm.Message, message string, opts ...CallOption) (*Result, error) {
	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
	return g.complete(ctx, OpSendMessage, msgs, opts)
}

// GenerateContent submits one flattened prompt.
func (g *Gateway) GenerateContent(ctx context.Context, prompt string, opts ...CallOption) (*Result, error) {
	msgs := []llm.Message{{Role: llm.RoleUser, Content: prompt}}
	return g.complete(ctx, OpGenerateContent, msgs, opts)
}

func (g *Gateway) complete(ctx context.Context, op Operation, msgs []llm.Message, opts []CallOption) (*Result, error) {
	req := llm.CompletionRequest{
		Model:       g.model,
		Messages:    msgs,
		Temperature: g.temperature,
	}
	for _, opt := range opts {
		opt(&req)
	}

	start := time.Now()
	resp, err := g.provider.Complete(ctx, req)
	if err == nil && (resp == nil || strings.TrimSpace(resp.Content) == "") {
		err = errEmptyResponse
	}
	g.metrics.ObserveBackend(string(op), time.Since(start), err)
	if err != nil {
		return nil, &GenerationError{Op: op, Provider: g.provider.Name(), Err: err}
	}

	model := resp.Model
	if model == "" {
		model = g.model
	}
	return &Result{
		Text:         resp.Content,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		Model:        model,
	}, nil
}
