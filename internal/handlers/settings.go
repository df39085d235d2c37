package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
)

type settingsRequest struct {
	Timezone         string `json:"timezone"`
	DailySummaryHour int    `json:"daily_summary_hour"`
	RemindersEnabled bool   `json:"reminders_enabled"`
	Version          int64  `json:"version"`
}

type calendarSyncRequest struct {
	Enabled          bool  `json:"enabled"`
	IncludeCompleted bool  `json:"include_completed"`
	Version          int64 `json:"version"`
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	settings, err := h.Settings.Get(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	settings, err := h.Settings.Get(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	settings.Timezone = req.Timezone
	settings.DailySummaryHour = req.DailySummaryHour
	settings.RemindersEnabled = req.RemindersEnabled
	settings.Version = req.Version
	if err := settings.Validate(); err != nil {
		writeRepoError(w, err)
		return
	}

	if err := h.Settings.Upsert(r.Context(), settings); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "settings", claims.UserID, "updated")
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) GetCalendarSync(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	settings, err := h.Settings.Get(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings.CalendarSync)
}

func (h *Handler) UpdateCalendarSync(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req calendarSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	settings, err := h.Settings.Get(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	settings.CalendarSync.Enabled = req.Enabled
	settings.CalendarSync.IncludeCompleted = req.IncludeCompleted
	settings.Version = req.Version

	// Enabling the feed for the first time mints its capability token.
	if req.Enabled && settings.CalendarSync.FeedToken == "" {
		settings.CalendarSync.FeedToken = newFeedToken()
	}

	if err := h.Settings.Upsert(r.Context(), settings); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "settings", claims.UserID, "updated")
	writeJSON(w, http.StatusOK, settings.CalendarSync)
}

// RegenerateFeedToken revokes previously shared calendar feed URLs.
func (h *Handler) RegenerateFeedToken(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	settings, err := h.Settings.Get(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	settings.CalendarSync.FeedToken = newFeedToken()

	if err := h.Settings.Upsert(r.Context(), settings); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "settings", claims.UserID, "updated")
	writeJSON(w, http.StatusOK, settings.CalendarSync)
}

func newFeedToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(buf)
}
