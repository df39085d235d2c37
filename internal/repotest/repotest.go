// Package repotest provides in-memory repository implementations shared by
// the service and handler tests. They mirror the Postgres and Redis
// repositories closely enough for tests to run without infrastructure.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anirudhv/boardsync/internal/models"
	"github.com/anirudhv/boardsync/internal/repositories"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *UserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *SessionRepo) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *SessionRepo) GetByID(_ context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *SessionRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessions []*models.Session
	for _, session := range r.sessions {
		if session.UserID == userID {
			copied := *session
			sessions = append(sessions, &copied)
		}
	}
	return sessions, nil
}

func (r *SessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *SessionRepo) DeleteAllForUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

type CategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*models.Category
}

func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{categories: make(map[uuid.UUID]*models.Category)}
}

func (r *CategoryRepo) Create(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.UserID == category.UserID && existing.Name == category.Name {
			return repositories.ErrDuplicateName
		}
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *category
	return &copied, nil
}

func (r *CategoryRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var categories []*models.Category
	for _, category := range r.categories {
		if category.UserID == userID {
			copied := *category
			categories = append(categories, &copied)
		}
	}
	return categories, nil
}

func (r *CategoryRepo) Update(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

type LabelRepo struct {
	mu     sync.Mutex
	labels map[uuid.UUID]*models.Label
}

func NewLabelRepo() *LabelRepo {
	return &LabelRepo{labels: make(map[uuid.UUID]*models.Label)}
}

func (r *LabelRepo) Create(_ context.Context, label *models.Label) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.labels {
		if existing.UserID == label.UserID && existing.Name == label.Name {
			return repositories.ErrDuplicateName
		}
	}
	label.ID = uuid.New()
	label.CreatedAt = time.Now()
	copied := *label
	r.labels[label.ID] = &copied
	return nil
}

func (r *LabelRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Label, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	label, ok := r.labels[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *label
	return &copied, nil
}

func (r *LabelRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.Label, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var labels []*models.Label
	for _, label := range r.labels {
		if label.UserID == userID {
			copied := *label
			labels = append(labels, &copied)
		}
	}
	return labels, nil
}

func (r *LabelRepo) Update(_ context.Context, label *models.Label) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.labels[label.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *label
	r.labels[label.ID] = &copied
	return nil
}

func (r *LabelRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.labels[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.labels, id)
	return nil
}

type FilterPresetRepo struct {
	mu      sync.Mutex
	presets map[uuid.UUID]*models.FilterPreset
}

func NewFilterPresetRepo() *FilterPresetRepo {
	return &FilterPresetRepo{presets: make(map[uuid.UUID]*models.FilterPreset)}
}

func (r *FilterPresetRepo) Create(_ context.Context, preset *models.FilterPreset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.presets {
		if existing.UserID == preset.UserID && existing.Name == preset.Name {
			return repositories.ErrDuplicateName
		}
	}
	if preset.IsDefault {
		for _, existing := range r.presets {
			if existing.UserID == preset.UserID {
				existing.IsDefault = false
			}
		}
	}
	preset.ID = uuid.New()
	preset.CreatedAt = time.Now()
	copied := *preset
	r.presets[preset.ID] = &copied
	return nil
}

func (r *FilterPresetRepo) GetByID(_ context.Context, id uuid.UUID) (*models.FilterPreset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	preset, ok := r.presets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *preset
	return &copied, nil
}

func (r *FilterPresetRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.FilterPreset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var presets []*models.FilterPreset
	for _, preset := range r.presets {
		if preset.UserID == userID {
			copied := *preset
			presets = append(presets, &copied)
		}
	}
	return presets, nil
}

func (r *FilterPresetRepo) Update(_ context.Context, preset *models.FilterPreset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.presets[preset.ID]; !ok {
		return repositories.ErrNotFound
	}
	if preset.IsDefault {
		for _, existing := range r.presets {
			if existing.UserID == preset.UserID && existing.ID != preset.ID {
				existing.IsDefault = false
			}
		}
	}
	copied := *preset
	r.presets[preset.ID] = &copied
	return nil
}

func (r *FilterPresetRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.presets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.presets, id)
	return nil
}

type TaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*models.Task

	// notified tracks which (task, kind) pairs already have a
	// notification, mirroring the NOT EXISTS subquery in Postgres.
	notified map[uuid.UUID]map[models.NotificationKind]bool
}

func NewTaskRepo() *TaskRepo {
	return &TaskRepo{
		tasks:    make(map[uuid.UUID]*models.Task),
		notified: make(map[uuid.UUID]map[models.NotificationKind]bool),
	}
}

func (r *TaskRepo) markNotified(taskID uuid.UUID, kind models.NotificationKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.notified[taskID] == nil {
		r.notified[taskID] = make(map[models.NotificationKind]bool)
	}
	r.notified[taskID][kind] = true
}

func (r *TaskRepo) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = uuid.New()
	task.CreatedAt = time.Now()
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *TaskRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *TaskRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tasks []*models.Task
	for _, task := range r.tasks {
		if task.UserID == userID {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}
	return tasks, nil
}

func (r *TaskRepo) ListDueReminders(_ context.Context, userID uuid.UUID, now time.Time) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tasks []*models.Task
	for _, task := range r.tasks {
		if task.UserID != userID || task.Completed() {
			continue
		}
		if task.ReminderAt == nil || task.ReminderAt.After(now) {
			continue
		}
		if r.notified[task.ID][models.KindReminder] {
			continue
		}
		copied := *task
		tasks = append(tasks, &copied)
	}
	return tasks, nil
}

func (r *TaskRepo) ListOverdue(_ context.Context, userID uuid.UUID, now time.Time) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tasks []*models.Task
	for _, task := range r.tasks {
		if task.UserID != userID || task.Completed() {
			continue
		}
		if task.DueDate == nil || !task.DueDate.Before(now) {
			continue
		}
		if r.notified[task.ID][models.KindOverdue] {
			continue
		}
		copied := *task
		tasks = append(tasks, &copied)
	}
	return tasks, nil
}

func (r *TaskRepo) CountOpen(_ context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	open, dueToday := 0, 0
	for _, task := range r.tasks {
		if task.UserID != userID || task.Completed() {
			continue
		}
		open++
		if task.DueDate != nil && !task.DueDate.Before(dayStart) && task.DueDate.Before(dayEnd) {
			dueToday++
		}
	}
	return open, dueToday, nil
}

func (r *TaskRepo) Update(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *TaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

type NotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
	taskRepo      *TaskRepo
}

// NewNotificationRepo links back to the task repo so created notifications
// feed the reminder/overdue dedup the way the SQL subquery does.
func NewNotificationRepo(taskRepo *TaskRepo) *NotificationRepo {
	return &NotificationRepo{taskRepo: taskRepo}
}

func (r *NotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	r.mu.Lock()
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	r.mu.Unlock()

	if notification.TaskID != nil && r.taskRepo != nil {
		r.taskRepo.markNotified(*notification.TaskID, notification.Kind)
	}
	return nil
}

func (r *NotificationRepo) ListByUserID(_ context.Context, userID uuid.UUID, _ int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Newest first, matching the SQL repo's ORDER BY created_at DESC.
	var out []*models.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		n := r.notifications[i]
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID && n.ReadAt == nil {
			now := time.Now()
			n.ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, n := range r.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &now
		}
	}
	return nil
}

type SettingsRepo struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*models.Settings
}

func NewSettingsRepo() *SettingsRepo {
	return &SettingsRepo{settings: make(map[uuid.UUID]*models.Settings)}
}

func (r *SettingsRepo) Get(_ context.Context, userID uuid.UUID) (*models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings, ok := r.settings[userID]
	if !ok {
		return models.DefaultSettings(userID), nil
	}
	copied := *settings
	return &copied, nil
}

func (r *SettingsRepo) Upsert(_ context.Context, settings *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.settings[settings.UserID]
	if !ok {
		if settings.Version != 0 {
			return repositories.ErrVersionConflict
		}
		settings.Version = 1
	} else {
		if settings.Version != existing.Version {
			return repositories.ErrVersionConflict
		}
		settings.Version++
	}
	now := time.Now()
	settings.UpdatedAt = &now
	copied := *settings
	r.settings[settings.UserID] = &copied
	return nil
}

type SummaryMarks struct {
	mu    sync.Mutex
	marks map[string]bool
}

func NewSummaryMarks() *SummaryMarks {
	return &SummaryMarks{marks: make(map[string]bool)}
}

func (r *SummaryMarks) MarkSummarySent(_ context.Context, userID uuid.UUID, day string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userID.String() + ":" + day
	if r.marks[key] {
		return false, nil
	}
	r.marks[key] = true
	return true, nil
}

type PresenceRepo struct {
	mu       sync.Mutex
	presence map[string]*models.Presence
}

func NewPresenceRepo() *PresenceRepo {
	return &PresenceRepo{presence: make(map[string]*models.Presence)}
}

func (r *PresenceRepo) SetPresence(_ context.Context, presence *models.Presence, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *presence
	r.presence[presence.SessionID] = &copied
	return nil
}

func (r *PresenceRepo) GetPresence(_ context.Context, sessionID string) (*models.Presence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	presence, ok := r.presence[sessionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *presence
	return &copied, nil
}

func (r *PresenceRepo) DeletePresence(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.presence, sessionID)
	return nil
}
