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

type PostgresLabelRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLabelRepository(pool *pgxpool.Pool) *PostgresLabelRepository {
	return &PostgresLabelRepository{pool: pool}
}

func (r *PostgresLabelRepository) Create(ctx context.Context, label *models.Label) error {
	query := `INSERT INTO labels (user_id, name, color)
              VALUES ($1, $2, $3)
              RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, label.UserID, label.Name, label.Color).
		Scan(&label.ID, &label.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to create label: %w", err)
	}
	return nil
}

func (r *PostgresLabelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Label, error) {
	query := `SELECT id, user_id, name, color, created_at, updated_at, deleted_at
	          FROM labels WHERE id = $1 AND deleted_at IS NULL`

	var label models.Label
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&label.ID, &label.UserID, &label.Name, &label.Color,
		&label.CreatedAt, &label.UpdatedAt, &label.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}
	return &label, nil
}

func (r *PostgresLabelRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Label, error) {
	query := `SELECT id, user_id, name, color, created_at, updated_at, deleted_at
	          FROM labels
	          WHERE user_id = $1 AND deleted_at IS NULL
	          ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		var label models.Label
		err := rows.Scan(
			&label.ID, &label.UserID, &label.Name, &label.Color,
			&label.CreatedAt, &label.UpdatedAt, &label.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, &label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating labels: %w", err)
	}
	return labels, nil
}

func (r *PostgresLabelRepository) Update(ctx context.Context, label *models.Label) error {
	query := `UPDATE labels SET name = $1, color = $2, updated_at = NOW()
	          WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, label.Name, label.Color, label.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to update label: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresLabelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE labels SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
