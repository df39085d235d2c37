package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anirudhv/boardsync/internal/models"
)

type categoryRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	categories, err := h.Categories.ListByUserID(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	category := &models.Category{
		UserID:   claims.UserID,
		Name:     req.Name,
		Color:    req.Color,
		Position: req.Position,
	}
	category.Normalize()
	if err := category.Validate(); err != nil {
		writeRepoError(w, err)
		return
	}

	if err := h.Categories.Create(r.Context(), category); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "category", category.ID, "created")
	writeJSON(w, http.StatusCreated, category)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	category, err := h.Categories.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if category.UserID != claims.UserID {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	category, err := h.Categories.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if category.UserID != claims.UserID {
		writeNotFound(w)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	category.Name = req.Name
	category.Color = req.Color
	category.Position = req.Position
	category.Normalize()
	if err := category.Validate(); err != nil {
		writeRepoError(w, err)
		return
	}

	if err := h.Categories.Update(r.Context(), category); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "category", category.ID, "updated")
	writeJSON(w, http.StatusOK, category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	category, err := h.Categories.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if category.UserID != claims.UserID {
		writeNotFound(w)
		return
	}

	if err := h.Categories.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "category", id, "deleted")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
