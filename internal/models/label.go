package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	LabelNameMaxLength = 30

	DefaultLabelColor = "#94a3b8"
)

type Label struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func (l *Label) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	if l.Color == "" {
		l.Color = DefaultLabelColor
	}
}

func (l *Label) Validate() error {
	if l.Name == "" {
		return validationError("name is required")
	}
	if utf8.RuneCountInString(l.Name) > LabelNameMaxLength {
		return validationError("name must be at most %d characters", LabelNameMaxLength)
	}
	return validateHexColor("color", l.Color)
}
