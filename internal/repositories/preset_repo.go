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

type PostgresFilterPresetRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFilterPresetRepository(pool *pgxpool.Pool) *PostgresFilterPresetRepository {
	return &PostgresFilterPresetRepository{pool: pool}
}

func (r *PostgresFilterPresetRepository) Create(ctx context.Context, preset *models.FilterPreset) error {
	// Only one default preset per user: clearing the old default and
	// inserting happen in one transaction.
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if preset.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE filter_presets SET is_default = FALSE WHERE user_id = $1`, preset.UserID); err != nil {
			return fmt.Errorf("failed to clear default preset: %w", err)
		}
	}

	query := `INSERT INTO filter_presets (user_id, name, filters, is_default)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`

	err = tx.QueryRow(ctx, query, preset.UserID, preset.Name, preset.Filters, preset.IsDefault).
		Scan(&preset.ID, &preset.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to create filter preset: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresFilterPresetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FilterPreset, error) {
	query := `SELECT id, user_id, name, filters, is_default, created_at, updated_at
	          FROM filter_presets WHERE id = $1`

	var preset models.FilterPreset
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&preset.ID, &preset.UserID, &preset.Name, &preset.Filters,
		&preset.IsDefault, &preset.CreatedAt, &preset.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filter preset: %w", err)
	}
	return &preset, nil
}

func (r *PostgresFilterPresetRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.FilterPreset, error) {
	query := `SELECT id, user_id, name, filters, is_default, created_at, updated_at
	          FROM filter_presets
	          WHERE user_id = $1
	          ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query filter presets: %w", err)
	}
	defer rows.Close()

	var presets []*models.FilterPreset
	for rows.Next() {
		var preset models.FilterPreset
		err := rows.Scan(
			&preset.ID, &preset.UserID, &preset.Name, &preset.Filters,
			&preset.IsDefault, &preset.CreatedAt, &preset.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan filter preset: %w", err)
		}
		presets = append(presets, &preset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating filter presets: %w", err)
	}
	return presets, nil
}

func (r *PostgresFilterPresetRepository) Update(ctx context.Context, preset *models.FilterPreset) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if preset.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE filter_presets SET is_default = FALSE WHERE user_id = $1 AND id <> $2`, preset.UserID, preset.ID); err != nil {
			return fmt.Errorf("failed to clear default preset: %w", err)
		}
	}

	query := `UPDATE filter_presets
	          SET name = $1, filters = $2, is_default = $3, updated_at = NOW()
	          WHERE id = $4`

	result, err := tx.Exec(ctx, query, preset.Name, preset.Filters, preset.IsDefault, preset.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to update filter preset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *PostgresFilterPresetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM filter_presets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete filter preset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
