package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/finxan/ai-service/internal/chat"
	"github.com/finxan/ai-service/internal/render"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsResponse is the outgoing websocket frame.
type wsResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"session_id,omitempty"`
	Content   string `json:"content"`
	HTML      string `json:"html,omitempty"`
	HasData   bool   `json:"has_data"`
}

// handleWebSocket answers one chat frame per incoming message, in seeded
// chat mode. Each frame carries its own context and history.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", slog.Any("error", err))
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			h.sendError(conn, "", "invalid message format")
			continue
		}
		if strings.TrimSpace(req.Message) == "" {
			h.sendError(conn, req.SessionID, chat.ErrEmptyMessage.Error())
			continue
		}

		if err := h.answerFrame(r.Context(), conn, req); err != nil {
			h.logger.Warn("websocket write failed", slog.Any("error", err))
			return
		}
	}
}

func (h *Handler) answerFrame(parent context.Context, conn *websocket.Conn, req chatRequest) error {
	// Frames outlive any single request deadline, so each one gets its own.
	ctx := context.WithoutCancel(parent)
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp, err := h.svc.Send(ctx, req.toChat(chat.ModeChat))
	if err != nil {
		return conn.WriteJSON(wsResponse{Type: "error", SessionID: req.SessionID, Content: err.Error()})
	}

	html, err := render.Markdown(resp.Response)
	if err != nil {
		h.logger.Warn("rendering reply failed", slog.Any("error", err))
	}
	return conn.WriteJSON(wsResponse{
		Type:      "response",
		SessionID: resp.SessionID,
		Content:   resp.Response,
		HTML:      html,
		HasData:   resp.HasData,
	})
}

func (h *Handler) sendError(conn *websocket.Conn, sessionID, msg string) {
	if err := conn.WriteJSON(wsResponse{Type: "error", SessionID: sessionID, Content: msg}); err != nil {
		h.logger.Warn("websocket write failed", slog.Any("error", err))
	}
}
