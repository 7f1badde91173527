package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finxan/ai-service/internal/conversation"
	"github.com/finxan/ai-service/internal/gateway"
	"github.com/finxan/ai-service/internal/inventory"
	"github.com/finxan/ai-service/internal/llm"
	"github.com/finxan/ai-service/internal/usage"
)

// FallbackMessage is shown to users whenever the backend could not answer.
const FallbackMessage = "I apologize, but I'm having trouble processing your request. Please try again."

// ErrEmptyMessage is returned when the current message is blank.
var ErrEmptyMessage = errors.New("message is required")

// Mode selects how the conversation is submitted to the backend.
type Mode string

const (
	// ModeChat seeds a multi-turn conversation and submits the message last.
	ModeChat Mode = "chat"
	// ModePrompt flattens everything into one prompt string.
	ModePrompt Mode = "prompt"
)

// ParseMode validates a mode name. An empty name yields the zero Mode, which
// the service replaces with its default.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeChat, ModePrompt:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q: must be chat or prompt", s)
}

// Request is one inbound chat message.
type Request struct {
	Message   string
	Context   inventory.Raw
	History   []conversation.Turn
	SessionID string
	Mode      Mode
}

// TokenUsage reports backend token accounting when available.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Response is the stable contract returned to every caller.
type Response struct {
	Response   string      `json:"response"`
	HasData    bool        `json:"has_data"`
	SessionID  string      `json:"session_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	TokenUsage *TokenUsage `json:"token_usage,omitempty"`
}

// Generator is the backend seam. *gateway.Gateway implements it.
type Generator interface {
	SendMessage(ctx context.Context, history []llm.Message, message string, opts ...gateway.CallOption) (*gateway.Result, error)
	GenerateContent(ctx context.Context, prompt string, opts ...gateway.CallOption) (*gateway.Result, error)
}

// Recorder persists usage records. *usage.Store implements it.
type Recorder interface {
	Record(ctx context.Context, rec usage.Record) error
}

// MapResult turns a backend outcome into a Response. Backend errors never
// reach the caller; they yield the fallback text. hasData is always the flag
// carried from the request context.
func MapResult(res *gateway.Result, err error, hasData bool) Response {
	if err != nil || res == nil {
		return Response{Response: FallbackMessage, HasData: hasData}
	}
	resp := Response{Response: res.Text, HasData: hasData}
	if res.InputTokens > 0 || res.OutputTokens > 0 {
		resp.TokenUsage = &TokenUsage{InputTokens: res.InputTokens, OutputTokens: res.OutputTokens}
	}
	return resp
}
