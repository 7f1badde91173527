package usage

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/finxan/ai-service/internal/server"
)

// RegisterRoutes mounts the ledger endpoints under /api/usage.
func RegisterRoutes(r chi.Router, store *Store, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	r.Route("/api/usage", func(r chi.Router) {
		r.Get("/", handleList(store, logger))
		r.Get("/summary", handleSummary(store, logger))
	})
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	f := Filter{
		SessionID: q.Get("session_id"),
		Mode:      q.Get("mode"),
		Limit:     100,
	}
	if v := q.Get("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.Since = &t
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.Offset = n
		}
	}
	return f
}

func handleList(store *Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.List(r.Context(), filterFromQuery(r))
		if err != nil {
			logger.ErrorContext(r.Context(), "listing usage records failed", slog.Any("error", err))
			server.WriteError(logger, w, http.StatusInternalServerError, "failed to read usage records")
			return
		}
		server.WriteJSON(logger, w, http.StatusOK, records)
	}
}

func handleSummary(store *Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := store.Summarize(r.Context(), filterFromQuery(r))
		if err != nil {
			logger.ErrorContext(r.Context(), "summarizing usage failed", slog.Any("error", err))
			server.WriteError(logger, w, http.StatusInternalServerError, "failed to summarize usage")
			return
		}
		server.WriteJSON(logger, w, http.StatusOK, sum)
	}
}
