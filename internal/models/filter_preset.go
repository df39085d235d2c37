package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const FilterPresetNameMaxLength = 60

// FilterPreset stores a saved combination of board filters. Filters is an
// opaque JSON document owned by the client.
type FilterPreset struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Name      string          `json:"name"`
	Filters   json.RawMessage `json:"filters"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func (p *FilterPreset) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if len(p.Filters) == 0 {
		p.Filters = json.RawMessage(`{}`)
	}
}

func (p *FilterPreset) Validate() error {
	if p.Name == "" {
		return validationError("name is required")
	}
	if utf8.RuneCountInString(p.Name) > FilterPresetNameMaxLength {
		return validationError("name must be at most %d characters", FilterPresetNameMaxLength)
	}
	if !json.Valid(p.Filters) {
		return validationError("filters must be valid JSON")
	}
	return nil
}
