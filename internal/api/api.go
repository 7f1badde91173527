package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/finxan/ai-service/internal/chat"
	"github.com/finxan/ai-service/internal/conversation"
	"github.com/finxan/ai-service/internal/inventory"
	"github.com/finxan/ai-service/internal/logging"
	"github.com/finxan/ai-service/internal/server"
	"github.com/finxan/ai-service/internal/usage"
)

// ServiceName is reported by the root endpoint.
const ServiceName = "Finxan AI Service"

// DefaultSessionID is echoed by the stateless endpoint when the client sends
// no session id.
const DefaultSessionID = "default_session"

const maxBodyBytes = 1 << 20

// Options configures the API handler.
type Options struct {
	Version string
	Timeout time.Duration
	Logger  *slog.Logger
	Ledger  *usage.Store // nil disables the usage endpoints
}

// Handler serves the public HTTP surface of the service.
type Handler struct {
	svc     *chat.Service
	ledger  *usage.Store
	logger  *slog.Logger
	version string
	timeout time.Duration
}

// New creates the API handler.
func New(svc *chat.Service, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{
		svc:     svc,
		ledger:  opts.Ledger,
		logger:  logger,
		version: opts.Version,
		timeout: opts.Timeout,
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	timeout := h.timeoutMiddleware()

	r.Group(func(r chi.Router) {
		r.Use(timeout)
		r.Get("/", h.handleRoot)
		r.Get("/health", h.handleHealth)
		r.Post("/chat", h.handleChat)
		if h.ledger != nil {
			usage.RegisterRoutes(r, h.ledger, h.logger)
		}
	})

	r.Route("/api/ai", func(r chi.Router) {
		r.Route("/chat", func(r chi.Router) {
			r.Get("/ws", h.handleWebSocket)
			r.With(timeout).Post("/message", h.handleChatMessage)
			r.Get("/health", h.serviceHealth("chat"))
		})
		r.Route("/analytics", func(r chi.Router) {
			r.With(timeout).Post("/analyze", h.handleAnalyze)
			r.Get("/health", h.serviceHealth("analytics"))
		})
		r.Route("/insights", func(r chi.Router) {
			r.With(timeout).Post("/generate", h.handleInsights)
			r.Get("/health", h.serviceHealth("insights"))
		})
	})
}

func (h *Handler) timeoutMiddleware() func(http.Handler) http.Handler {
	if h.timeout <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.Timeout(h.timeout)
}

// chatRequest is the body shared by the chat endpoints. The inventory
// context may arrive as inventory_context or context.
type chatRequest struct {
	Message             string              `json:"message"`
	InventoryContext    json.RawMessage     `json:"inventory_context,omitempty"`
	Context             json.RawMessage     `json:"context,omitempty"`
	ConversationHistory []conversation.Turn `json:"conversation_history,omitempty"`
	SessionID           string              `json:"session_id,omitempty"`
	UserID              string              `json:"user_id,omitempty"`
}

func (req chatRequest) toChat(mode chat.Mode) chat.Request {
	raw := req.InventoryContext
	if absent(raw) {
		raw = req.Context
	}
	return chat.Request{
		Message:   req.Message,
		Context:   inventory.Parse(raw),
		History:   req.ConversationHistory,
		SessionID: req.SessionID,
		Mode:      mode,
	}
}

// absent reports whether a JSON field was omitted or sent as null.
func absent(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	return len(v) == 0 || bytes.Equal(v, []byte("null"))
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"service": ServiceName,
		"status":  "running",
		"version": h.version,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) serviceHealth(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": name})
	}
}

// handleChat serves the seeded multi-turn endpoint.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r, req.toChat(chat.ModeChat))
}

// handleChatMessage serves the stateless single-call endpoint.
func (h *Handler) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		req.SessionID = DefaultSessionID
	}
	h.respond(w, r, req.toChat(chat.ModePrompt))
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, req chat.Request) {
	resp, err := h.svc.Send(r.Context(), req)
	if errors.Is(err, chat.ErrEmptyMessage) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "chat request failed", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type analyzeRequest struct {
	UserID    string   `json:"user_id"`
	TimeRange string   `json:"time_range"`
	Metrics   []string `json:"metrics,omitempty"`
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		h.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.TimeRange == "" {
		req.TimeRange = "30d"
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"analysis":   "Inventory analysis in progress",
		"user_id":    req.UserID,
		"time_range": req.TimeRange,
		"status":     "success",
	})
}

type insightsRequest struct {
	UserID        string           `json:"user_id"`
	InventoryData []map[string]any `json:"inventory_data"`
	AnalysisType  string           `json:"analysis_type"`
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		h.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.InventoryData == nil {
		h.writeError(w, http.StatusBadRequest, "inventory_data is required")
		return
	}

	out, err := h.svc.GenerateInsights(r.Context(), chat.InsightsRequest{
		UserID:       req.UserID,
		Records:      req.InventoryData,
		AnalysisType: req.AnalysisType,
	})
	if err != nil {
		h.writeError(w, http.StatusBadGateway, chat.ErrInsightsUnavailable.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

// decode reads a JSON body into v, answering 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	server.WriteError(h.logger, w, status, detail)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	server.WriteJSON(h.logger, w, status, v)
}
