package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anirudhv/boardsync/internal/models"
)

// ErrVersionConflict is returned when optimistic locking fails: the settings
// row was modified by another session since it was read.
var ErrVersionConflict = errors.New("version conflict: settings were modified by another session")

type PostgresSettingsRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSettingsRepository(pool *pgxpool.Pool) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{pool: pool}
}

// Get returns the user's settings, or defaults (version 0) when the user has
// never saved any.
func (r *PostgresSettingsRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Settings, error) {
	query := `SELECT user_id, timezone, daily_summary_hour, reminders_enabled,
	                 calendar_enabled, calendar_feed_token, calendar_include_completed,
	                 version, updated_at
	          FROM settings WHERE user_id = $1`

	var settings models.Settings
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&settings.UserID, &settings.Timezone, &settings.DailySummaryHour, &settings.RemindersEnabled,
		&settings.CalendarSync.Enabled, &settings.CalendarSync.FeedToken, &settings.CalendarSync.IncludeCompleted,
		&settings.Version, &settings.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DefaultSettings(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// Upsert creates or updates a settings row with optimistic locking.
// A row that does not exist yet is created with version 1. An existing row
// is only updated when the provided version matches the stored one; on
// success the version is incremented in place.
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, settings *models.Settings) error {
	if settings.Version == 0 {
		return r.create(ctx, settings)
	}
	return r.update(ctx, settings)
}

func (r *PostgresSettingsRepository) create(ctx context.Context, settings *models.Settings) error {
	query := `INSERT INTO settings (user_id, timezone, daily_summary_hour, reminders_enabled,
	                                calendar_enabled, calendar_feed_token, calendar_include_completed, version)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
	          ON CONFLICT (user_id) DO NOTHING
	          RETURNING version, updated_at`

	err := r.pool.QueryRow(ctx, query,
		settings.UserID, settings.Timezone, settings.DailySummaryHour, settings.RemindersEnabled,
		settings.CalendarSync.Enabled, settings.CalendarSync.FeedToken, settings.CalendarSync.IncludeCompleted,
	).Scan(&settings.Version, &settings.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// Row appeared between read and insert: version 0 is stale.
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create settings: %w", err)
	}
	return nil
}

func (r *PostgresSettingsRepository) update(ctx context.Context, settings *models.Settings) error {
	// The WHERE clause carries the version check: zero rows updated means
	// the caller read a stale version.
	query := `UPDATE settings
	          SET timezone = $1, daily_summary_hour = $2, reminders_enabled = $3,
	              calendar_enabled = $4, calendar_feed_token = $5, calendar_include_completed = $6,
	              version = version + 1, updated_at = NOW()
	          WHERE user_id = $7 AND version = $8
	          RETURNING version, updated_at`

	err := r.pool.QueryRow(ctx, query,
		settings.Timezone, settings.DailySummaryHour, settings.RemindersEnabled,
		settings.CalendarSync.Enabled, settings.CalendarSync.FeedToken, settings.CalendarSync.IncludeCompleted,
		settings.UserID, settings.Version,
	).Scan(&settings.Version, &settings.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
