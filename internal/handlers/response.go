package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anirudhv/boardsync/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}

// writeInternalError swallows the original error: it is logged, never
// returned to the client.
func writeInternalError(w http.ResponseWriter, err error) {
	logging.Log.Error().Err(err).Msg("internal error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
