package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	KindReminder     NotificationKind = "reminder"
	KindOverdue      NotificationKind = "overdue"
	KindDailySummary NotificationKind = "daily_summary"
)

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	TaskID    *uuid.UUID       `json:"task_id,omitempty"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Body      string           `json:"body,omitempty"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
