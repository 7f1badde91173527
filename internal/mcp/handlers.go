package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/finxan/ai-service/internal/chat"
	"github.com/finxan/ai-service/internal/conversation"
	"github.com/finxan/ai-service/internal/inventory"
)

// handleAskAssistant runs one message through the chat pipeline.
func (s *Server) handleAskAssistant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	var history []conversation.Turn
	if raw := strings.TrimSpace(request.GetString("conversation_history", "")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid conversation_history: %v", err)), nil
		}
	}

	mode, err := chat.ParseMode(request.GetString("mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := s.svc.Send(ctx, chat.Request{
		Message: message,
		Context: inventory.Parse([]byte(request.GetString("inventory_context", ""))),
		History: history,
		Mode:    mode,
	})
	if errors.Is(err, chat.ErrEmptyMessage) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("request failed: %v", err)), nil
	}

	return mcp.NewToolResultText(resp.Response), nil
}

// handleComposePrompt returns the composed system prompt.
func (s *Server) handleComposePrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := inventory.Parse([]byte(request.GetString("inventory_context", "")))
	return mcp.NewToolResultText(chat.ComposePrompt(raw)), nil
}
