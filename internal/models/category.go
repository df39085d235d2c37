package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	CategoryNameMaxLength = 50

	// DefaultCategoryColor is applied when a category is created without
	// an explicit color.
	DefaultCategoryColor = "#6366f1"
)

type Category struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	Position  int        `json:"position"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Normalize trims the name and fills defaulted fields. Call before Validate.
func (c *Category) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}
}

func (c *Category) Validate() error {
	if c.Name == "" {
		return validationError("name is required")
	}
	if utf8.RuneCountInString(c.Name) > CategoryNameMaxLength {
		return validationError("name must be at most %d characters", CategoryNameMaxLength)
	}
	return validateHexColor("color", c.Color)
}
