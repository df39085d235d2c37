package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/anirudhv/boardsync/internal/models"
)

type taskRequest struct {
	CategoryID *uuid.UUID          `json:"category_id"`
	Title      string              `json:"title"`
	Notes      string              `json:"notes"`
	Status     models.TaskStatus   `json:"status"`
	Priority   models.TaskPriority `json:"priority"`
	DueDate    *time.Time          `json:"due_date"`
	ReminderAt *time.Time          `json:"reminder_at"`
	Position   int                 `json:"position"`
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	tasks, err := h.Tasks.ListByUserID(r.Context(), claims.UserID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if req.CategoryID != nil {
		if !h.ownsCategory(w, r, claims.UserID, *req.CategoryID) {
			return
		}
	}

	task := &models.Task{
		UserID:     claims.UserID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Notes:      req.Notes,
		Status:     req.Status,
		Priority:   req.Priority,
		DueDate:    req.DueDate,
		ReminderAt: req.ReminderAt,
		Position:   req.Position,
	}
	task.Normalize()
	if err := task.Validate(); err != nil {
		writeRepoError(w, err)
		return
	}

	if err := h.Tasks.Create(r.Context(), task); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "task", task.ID, "created")
	writeJSON(w, http.StatusCreated, task)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	task, err := h.Tasks.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if task.UserID != claims.UserID {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	task, err := h.Tasks.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if task.UserID != claims.UserID {
		writeNotFound(w)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if req.CategoryID != nil {
		if !h.ownsCategory(w, r, claims.UserID, *req.CategoryID) {
			return
		}
	}

	wasDone := task.Completed()
	task.CategoryID = req.CategoryID
	task.Title = req.Title
	task.Notes = req.Notes
	task.Status = req.Status
	task.Priority = req.Priority
	task.DueDate = req.DueDate
	task.ReminderAt = req.ReminderAt
	task.Position = req.Position
	task.Normalize()
	if err := task.Validate(); err != nil {
		writeRepoError(w, err)
		return
	}

	if task.Completed() && !wasDone {
		now := time.Now()
		task.CompletedAt = &now
	} else if !task.Completed() {
		task.CompletedAt = nil
	}

	if err := h.Tasks.Update(r.Context(), task); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "task", task.ID, "updated")
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := urlUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}

	task, err := h.Tasks.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if task.UserID != claims.UserID {
		writeNotFound(w)
		return
	}

	if err := h.Tasks.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err)
		return
	}

	h.publish(r, "task", id, "deleted")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ownsCategory rejects tasks pointing at a missing or foreign category.
func (h *Handler) ownsCategory(w http.ResponseWriter, r *http.Request, userID, categoryID uuid.UUID) bool {
	category, err := h.Categories.GetByID(r.Context(), categoryID)
	if err != nil {
		writeRepoError(w, err)
		return false
	}
	if category.UserID != userID {
		writeNotFound(w)
		return false
	}
	return true
}
