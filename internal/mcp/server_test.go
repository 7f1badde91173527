package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/finxan/ai-service/internal/chat"
	"github.com/finxan/ai-service/internal/gateway"
	"github.com/finxan/ai-service/internal/llm"
)

// mockGenerator implements chat.Generator for testing.
type mockGenerator struct {
	text     string
	err      error
	history  []llm.Message
	prompt   string
	sendUsed bool
}

func (m *mockGenerator) SendMessage(_ context.Context, history []llm.Message, _ string, _ ...gateway.CallOption) (*gateway.Result, error) {
	m.sendUsed = true
	m.history = history
	if m.err != nil {
		return nil, m.err
	}
	return &gateway.Result{Text: m.text}, nil
}

func (m *mockGenerator) GenerateContent(_ context.Context, prompt string, _ ...gateway.CallOption) (*gateway.Result, error) {
	m.prompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return &gateway.Result{Text: m.text}, nil
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask", askAssistantTool, "ask_inventory_assistant"},
		{"compose", composePromptTool, "compose_inventory_prompt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	svc := chat.NewService(&mockGenerator{})
	srv := NewServer(svc)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.svc != svc {
		t.Error("service not set correctly")
	}
}

func TestHandleAskAssistant(t *testing.T) {
	ctx := context.Background()

	t.Run("chat mode with context", func(t *testing.T) {
		gen := &mockGenerator{text: "You have 1,340 items."}
		srv := NewServer(chat.NewService(gen))

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"message":              "How many items?",
			"inventory_context":    `{"summary": "Items: 1340", "total_items": 1340, "has_data": true}`,
			"conversation_history": `[{"role": "user", "content": "hi"}]`,
		}

		result, err := srv.handleAskAssistant(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if got := resultText(t, result); got != "You have 1,340 items." {
			t.Errorf("text = %q", got)
		}
		if !gen.sendUsed {
			t.Error("chat mode should use the seeded history call")
		}
		if len(gen.history) != 3 {
			t.Errorf("history = %d turns, want 3", len(gen.history))
		}
	})

	t.Run("prompt mode", func(t *testing.T) {
		gen := &mockGenerator{text: "ok"}
		srv := NewServer(chat.NewService(gen))

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"message": "hello", "mode": "prompt"}

		result, err := srv.handleAskAssistant(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if gen.sendUsed {
			t.Error("prompt mode should not use the seeded history call")
		}
		if !strings.HasSuffix(gen.prompt, "User: hello\nAssistant:") {
			t.Errorf("unexpected flattened prompt tail: %q", gen.prompt)
		}
	})

	t.Run("backend failure returns fallback text", func(t *testing.T) {
		srv := NewServer(chat.NewService(&mockGenerator{err: gateway.ErrGenerationFailed}))

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"message": "hello"}

		result, err := srv.handleAskAssistant(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resultText(t, result); got != chat.FallbackMessage {
			t.Errorf("text = %q, want fallback", got)
		}
	})

	errorCases := []struct {
		name string
		args map[string]any
	}{
		{"missing message", map[string]any{}},
		{"blank message", map[string]any{"message": "  "}},
		{"bad history", map[string]any{"message": "hi", "conversation_history": "{not json"}},
		{"bad mode", map[string]any{"message": "hi", "mode": "stream"}},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := NewServer(chat.NewService(&mockGenerator{text: "x"}))
			req := mcp.CallToolRequest{}
			req.Params.Arguments = tc.args

			result, err := srv.handleAskAssistant(ctx, req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Error("expected tool error")
			}
		})
	}
}

func TestHandleComposePrompt(t *testing.T) {
	srv := NewServer(chat.NewService(&mockGenerator{}))
	ctx := context.Background()

	t.Run("with data", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"inventory_context": `{"hasData": true, "summary": {"totalProducts": 42, "totalValue": 1234.5}}`,
		}
		result, err := srv.handleComposePrompt(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "$1,234.50") {
			t.Errorf("expected formatted value in prompt:\n%s", text)
		}
	})

	t.Run("without data", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}
		result, err := srv.handleComposePrompt(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(resultText(t, result), "No inventory data is currently available") {
			t.Error("expected the no-data notice")
		}
	})
}
