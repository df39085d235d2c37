package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anirudhv/boardsync/internal/models"
)

type labelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *Handler) ListLabels(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	labels, err := h.Labels.ListByUserID(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if labels == nil {
		labels = []*models.Label{}
	}
	writeJSON(w, http.StatusOK, labels)
}

func (h *Handler) CreateLabel(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	label := &models.Label{
		UserID: claims.UserID,
		Name:   req.Name,
		Color:  req.Color,
	}
	label.Normalize()
	if err := label.Validate(); err != nil {
		writeRepoError(w, err)
		return
	}

	if err := h.Labels.Create(r.Context(), label); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "label", label.ID, "created")
	writeJSON(w, http.StatusCreated, label)
}

func (h *Handler) UpdateLabel(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	label, err := h.Labels.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if label.UserID != claims.UserID {
		writeNotFound(w)
		return
	}

	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	label.Name = req.Name
	label.Color = req.Color
	label.Normalize()
	if err := label.Validate(); err != nil {
		writeRepoError(w, err)
		return
	}

	if err := h.Labels.Update(r.Context(), label); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "label", label.ID, "updated")
	writeJSON(w, http.StatusOK, label)
}

func (h *Handler) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	label, err := h.Labels.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if label.UserID != claims.UserID {
		writeNotFound(w)
		return
	}

	if err := h.Labels.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "label", id, "deleted")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
