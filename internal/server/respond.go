package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON sends v as a JSON body with the given status. A value that
// cannot be encoded is answered with a 500 so clients never get a
// half-written body.
func WriteJSON(logger *slog.Logger, w http.ResponseWriter, status int, v any) {
	if logger == nil {
		logger = slog.Default()
	}
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("encoding response failed", slog.Int("status", status), slog.Any("error", err))
		status = http.StatusInternalServerError
		body = []byte(`{"detail":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Debug("writing response failed", slog.Any("error", err))
	}
}

// WriteError sends {"detail": detail} with the given status.
func WriteError(logger *slog.Logger, w http.ResponseWriter, status int, detail string) {
	WriteJSON(logger, w, status, map[string]string{"detail": detail})
}
