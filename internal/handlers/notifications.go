package handlers

import (
	"net/http"
	"strconv"

	"github.com/anirudhv/boardsync/internal/models"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notifications, err := h.NotifRepo.ListByUserID(r.Context(), claims.UserID, limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	if err := h.NotifRepo.MarkRead(r.Context(), claims.UserID, id); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	if err := h.NotifRepo.MarkAllRead(r.Context(), claims.UserID); err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// CheckDueDates triggers a batch sweep for the caller and returns the counts
// of reminders, overdue notices, and daily summaries created.
func (h *Handler) CheckDueDates(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	result, err := h.Notifications.CheckDueDates(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
