package models

import (
	"time"

	"github.com/google/uuid"
)

// CalendarSyncSettings controls the read-only calendar feed exposed to
// external calendar clients. FeedToken is the capability embedded in the
// feed URL; regenerating it revokes previously shared URLs.
type CalendarSyncSettings struct {
	Enabled          bool   `json:"enabled"`
	FeedToken        string `json:"feed_token,omitempty"`
	IncludeCompleted bool   `json:"include_completed"`
}

// Settings is one row per user, updated with optimistic locking: Version
// must match the stored row or the update is rejected.
type Settings struct {
	UserID           uuid.UUID            `json:"user_id"`
	Timezone         string               `json:"timezone"`
	DailySummaryHour int                  `json:"daily_summary_hour"`
	RemindersEnabled bool                 `json:"reminders_enabled"`
	CalendarSync     CalendarSyncSettings `json:"calendar_sync"`
	Version          int64                `json:"version"`
	UpdatedAt        *time.Time           `json:"updated_at,omitempty"`
}

// DefaultSettings returns the settings applied to a user who has never
// saved any.
func DefaultSettings(userID uuid.UUID) *Settings {
	return &Settings{
		UserID:           userID,
		Timezone:         "UTC",
		DailySummaryHour: 8,
		RemindersEnabled: true,
	}
}

func (s *Settings) Validate() error {
	if s.Timezone == "" {
		return validationError("timezone is required")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return validationError("timezone %q is not a valid IANA zone", s.Timezone)
	}
	if s.DailySummaryHour < 0 || s.DailySummaryHour > 23 {
		return validationError("daily_summary_hour must be between 0 and 23")
	}
	return nil
}
