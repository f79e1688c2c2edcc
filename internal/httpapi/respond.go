// internal/httpapi/respond.go
//
// JSON response helpers and the domain-error → status-code mapping.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/circlehq/console/internal/chat"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps domain errors onto HTTP statuses.  Store-level failures are
// logged and surface as a bare 500; their details stay out of responses.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, chat.ErrMessageNotFound):
		writeError(w, http.StatusNotFound, "message not found")
	case errors.Is(err, chat.ErrForbidden):
		writeError(w, http.StatusForbidden, "not permitted")
	default:
		zap.S().Errorw("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
