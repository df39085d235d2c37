package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anirudhv/boardsync/internal/repositories"
)

type sessionView struct {
	ID        string    `json:"id"`
	Current   bool      `json:"current"`
	Online    bool      `json:"online"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ListSessions shows the caller's sessions with an online flag for those
// that currently hold an open event stream.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	sessions, err := h.Sessions.ListByUserID(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		online := false
		if h.Presence != nil {
			_, err := h.Presence.GetPresence(r.Context(), session.ID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				writeInternalError(w, err)
				return
			}
			online = err == nil
		}
		views = append(views, sessionView{
			ID:        session.ID,
			Current:   session.ID == claims.SessionID,
			Online:    online,
			CreatedAt: session.CreatedAt,
			ExpiresAt: session.ExpiresAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}
