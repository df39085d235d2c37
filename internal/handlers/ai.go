package handlers

import "net/http"

// AIStatus reports whether the optional AI assistance feature is enabled for
// this deployment.
func (h *Handler) AIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.AIEnabled})
}
