package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anirudhv/boardsync/internal/models"
)

// ErrDuplicateName is returned when a unique-per-owner name constraint is
// violated (categories, labels, presets).
var ErrDuplicateName = errors.New("name already exists")

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (user_id, name, color, position)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, category.UserID, category.Name, category.Color, category.Position).
		Scan(&category.ID, &category.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT id, user_id, name, color, position, created_at, updated_at, deleted_at
	          FROM categories WHERE id = $1 AND deleted_at IS NULL`

	var category models.Category
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID, &category.UserID, &category.Name, &category.Color,
		&category.Position, &category.CreatedAt, &category.UpdatedAt, &category.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *PostgresCategoryRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	query := `SELECT id, user_id, name, color, position, created_at, updated_at, deleted_at
	          FROM categories
	          WHERE user_id = $1 AND deleted_at IS NULL
	          ORDER BY position ASC, name ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID, &category.UserID, &category.Name, &category.Color,
			&category.Position, &category.CreatedAt, &category.UpdatedAt, &category.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (r *PostgresCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `UPDATE categories
	          SET name = $1, color = $2, position = $3, updated_at = NOW()
	          WHERE id = $4 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, category.Name, category.Color, category.Position, category.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE categories SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
