package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anirudhv/boardsync/internal/models"
)

type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

const taskColumns = `id, user_id, category_id, title, notes, status, priority,
	due_date, reminder_at, position, completed_at, created_at, updated_at, deleted_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID, &task.UserID, &task.CategoryID, &task.Title, &task.Notes,
		&task.Status, &task.Priority, &task.DueDate, &task.ReminderAt,
		&task.Position, &task.CompletedAt, &task.CreatedAt, &task.UpdatedAt, &task.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `INSERT INTO tasks (user_id, category_id, title, notes, status, priority, due_date, reminder_at, position)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		task.UserID, task.CategoryID, task.Title, task.Notes,
		task.Status, task.Priority, task.DueDate, task.ReminderAt, task.Position,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND deleted_at IS NULL`

	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (r *PostgresTaskRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + `
	          FROM tasks
	          WHERE user_id = $1 AND deleted_at IS NULL
	          ORDER BY position ASC, created_at ASC`

	return r.queryTasks(ctx, query, userID)
}

func (r *PostgresTaskRepository) ListDueReminders(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + `
	          FROM tasks t
	          WHERE t.user_id = $1 AND t.deleted_at IS NULL
	            AND t.status <> 'done'
	            AND t.reminder_at IS NOT NULL AND t.reminder_at <= $2
	            AND NOT EXISTS (
	              SELECT 1 FROM notifications n
	              WHERE n.task_id = t.id AND n.kind = 'reminder'
	            )
	          ORDER BY t.reminder_at ASC`

	return r.queryTasks(ctx, query, userID, now)
}

func (r *PostgresTaskRepository) ListOverdue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + `
	          FROM tasks t
	          WHERE t.user_id = $1 AND t.deleted_at IS NULL
	            AND t.status <> 'done'
	            AND t.due_date IS NOT NULL AND t.due_date < $2
	            AND NOT EXISTS (
	              SELECT 1 FROM notifications n
	              WHERE n.task_id = t.id AND n.kind = 'overdue'
	            )
	          ORDER BY t.due_date ASC`

	return r.queryTasks(ctx, query, userID, now)
}

func (r *PostgresTaskRepository) CountOpen(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) (int, int, error) {
	query := `SELECT COUNT(*),
	                 COUNT(*) FILTER (WHERE due_date >= $2 AND due_date < $3)
	          FROM tasks
	          WHERE user_id = $1 AND deleted_at IS NULL AND status <> 'done'`

	var open, dueToday int
	err := r.pool.QueryRow(ctx, query, userID, dayStart, dayEnd).Scan(&open, &dueToday)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count open tasks: %w", err)
	}
	return open, dueToday, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `UPDATE tasks
	          SET category_id = $1, title = $2, notes = $3, status = $4, priority = $5,
	              due_date = $6, reminder_at = $7, position = $8, completed_at = $9,
	              updated_at = NOW()
	          WHERE id = $10 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query,
		task.CategoryID, task.Title, task.Notes, task.Status, task.Priority,
		task.DueDate, task.ReminderAt, task.Position, task.CompletedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE tasks SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}
