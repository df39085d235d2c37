package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anirudhv/boardsync/internal/models"
)

type presetRequest struct {
	Name      string          `json:"name"`
	Filters   json.RawMessage `json:"filters"`
	IsDefault bool            `json:"is_default"`
}

func (h *Handler) ListFilterPresets(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	presets, err := h.FilterPresets.ListByUserID(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if presets == nil {
		presets = []*models.FilterPreset{}
	}
	writeJSON(w, http.StatusOK, presets)
}

func (h *Handler) CreateFilterPreset(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	preset := &models.FilterPreset{
		UserID:    claims.UserID,
		Name:      req.Name,
		Filters:   req.Filters,
		IsDefault: req.IsDefault,
	}
	preset.Normalize()
	if err := preset.Validate(); err != nil {
		writeRepoError(w, err)
		return
	}

	if err := h.FilterPresets.Create(r.Context(), preset); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "filter_preset", preset.ID, "created")
	writeJSON(w, http.StatusCreated, preset)
}

func (h *Handler) UpdateFilterPreset(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	preset, err := h.FilterPresets.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if preset.UserID != claims.UserID {
		writeNotFound(w)
		return
	}

	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	preset.Name = req.Name
	preset.Filters = req.Filters
	preset.IsDefault = req.IsDefault
	preset.Normalize()
	if err := preset.Validate(); err != nil {
		writeRepoError(w, err)
		return
	}

	if err := h.FilterPresets.Update(r.Context(), preset); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "filter_preset", preset.ID, "updated")
	writeJSON(w, http.StatusOK, preset)
}

func (h *Handler) DeleteFilterPreset(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	preset, err := h.FilterPresets.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if preset.UserID != claims.UserID {
		writeNotFound(w)
		return
	}

	if err := h.FilterPresets.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "filter_preset", id, "deleted")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
