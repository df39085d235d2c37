package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anirudhv/boardsync/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type LabelRepository interface {
	Create(ctx context.Context, label *models.Label) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Label, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Label, error)
	Update(ctx context.Context, label *models.Label) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type FilterPresetRepository interface {
	Create(ctx context.Context, preset *models.FilterPreset) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FilterPreset, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.FilterPreset, error)
	Update(ctx context.Context, preset *models.FilterPreset) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	// ListDueReminders returns incomplete tasks whose reminder time has
	// passed and for which no reminder notification exists yet.
	ListDueReminders(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.Task, error)
	// ListOverdue returns incomplete tasks whose due date has passed and
	// for which no overdue notification exists yet.
	ListOverdue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.Task, error)
	// CountOpen returns the number of incomplete tasks, and how many of
	// those are due today in the given location.
	CountOpen(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) (open int, dueToday int, err error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type SettingsRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Settings, error)
	Upsert(ctx context.Context, settings *models.Settings) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

type PresenceRepository interface {
	SetPresence(ctx context.Context, presence *models.Presence, ttl time.Duration) error
	GetPresence(ctx context.Context, sessionID string) (*models.Presence, error)
	DeletePresence(ctx context.Context, sessionID string) error
}

// SummaryMarkRepository remembers that a daily summary was already produced
// for a user on a given local date.
type SummaryMarkRepository interface {
	MarkSummarySent(ctx context.Context, userID uuid.UUID, day string) (first bool, err error)
}
