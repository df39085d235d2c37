package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const TaskTitleMaxLength = 200

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	CategoryID  *uuid.UUID   `json:"category_id,omitempty"`
	Title       string       `json:"title"`
	Notes       string       `json:"notes,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	ReminderAt  *time.Time   `json:"reminder_at,omitempty"`
	Position    int          `json:"position"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty"`
}

func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Notes = strings.TrimSpace(t.Notes)
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

func (t *Task) Validate() error {
	if t.Title == "" {
		return validationError("title is required")
	}
	if utf8.RuneCountInString(t.Title) > TaskTitleMaxLength {
		return validationError("title must be at most %d characters", TaskTitleMaxLength)
	}
	switch t.Status {
	case StatusTodo, StatusInProgress, StatusDone:
	default:
		return validationError("status must be one of todo, in_progress, done")
	}
	switch t.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return validationError("priority must be one of low, medium, high")
	}
	return nil
}

// Completed reports whether the task is finished and should be excluded from
// overdue sweeps.
func (t *Task) Completed() bool {
	return t.Status == StatusDone
}
