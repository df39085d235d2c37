package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anirudhv/boardsync/internal/logging"
	"github.com/anirudhv/boardsync/internal/models"
	"github.com/anirudhv/boardsync/internal/repositories"
)

// SweepResult counts what one due-date sweep created for a user.
type SweepResult struct {
	Reminders int `json:"reminders"`
	Overdue   int `json:"overdue"`
	Summaries int `json:"summaries"`
}

type NotificationService struct {
	userRepo         repositories.UserRepository
	taskRepo         repositories.TaskRepository
	notificationRepo repositories.NotificationRepository
	settingsRepo     repositories.SettingsRepository
	summaryMarks     repositories.SummaryMarkRepository
	publisher        *SyncPublisher

	// now is swappable for tests.
	now func() time.Time
}

func NewNotificationService(
	userRepo repositories.UserRepository,
	taskRepo repositories.TaskRepository,
	notificationRepo repositories.NotificationRepository,
	settingsRepo repositories.SettingsRepository,
	summaryMarks repositories.SummaryMarkRepository,
	publisher *SyncPublisher,
) *NotificationService {
	return &NotificationService{
		userRepo:         userRepo,
		taskRepo:         taskRepo,
		notificationRepo: notificationRepo,
		settingsRepo:     settingsRepo,
		summaryMarks:     summaryMarks,
		publisher:        publisher,
		now:              time.Now,
	}
}

// CheckDueDates runs one sweep for a single user: reminders for tasks whose
// reminder time has passed, overdue notices for incomplete tasks past their
// due date, and at most one daily summary per local day once the user's
// configured summary hour has been reached.
func (s *NotificationService) CheckDueDates(ctx context.Context, userID uuid.UUID) (*SweepResult, error) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	result := &SweepResult{}
	now := s.now()

	if settings.RemindersEnabled {
		reminders, err := s.sweepReminders(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		result.Reminders = reminders
	}

	overdue, err := s.sweepOverdue(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	result.Overdue = overdue

	summaries, err := s.sweepDailySummary(ctx, userID, settings, now)
	if err != nil {
		return nil, err
	}
	result.Summaries = summaries

	return result, nil
}

// SweepAllUsers runs CheckDueDates for every live user. One failing user
// does not stop the sweep.
func (s *NotificationService) SweepAllUsers(ctx context.Context) {
	ids, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		logging.Log.Error().Err(err).Msg("sweep: failed to list users")
		return
	}
	for _, id := range ids {
		if _, err := s.CheckDueDates(ctx, id); err != nil {
			logging.Log.Error().Err(err).Str("user_id", id.String()).Msg("sweep failed for user")
		}
	}
}

func (s *NotificationService) sweepReminders(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	tasks, err := s.taskRepo.ListDueReminders(ctx, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due reminders: %w", err)
	}

	created := 0
	for _, task := range tasks {
		notification := &models.Notification{
			UserID: userID,
			TaskID: &task.ID,
			Kind:   models.KindReminder,
			Title:  fmt.Sprintf("Reminder: %s", task.Title),
			Body:   reminderBody(task, now),
		}
		if err := s.create(ctx, notification); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *NotificationService) sweepOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	tasks, err := s.taskRepo.ListOverdue(ctx, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue tasks: %w", err)
	}

	created := 0
	for _, task := range tasks {
		notification := &models.Notification{
			UserID: userID,
			TaskID: &task.ID,
			Kind:   models.KindOverdue,
			Title:  fmt.Sprintf("Overdue: %s", task.Title),
			Body:   fmt.Sprintf("Due %s", task.DueDate.Format("Jan 2, 2006")),
		}
		if err := s.create(ctx, notification); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *NotificationService) sweepDailySummary(ctx context.Context, userID uuid.UUID, settings *models.Settings, now time.Time) (int, error) {
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)

	if local.Hour() < settings.DailySummaryHour {
		return 0, nil
	}

	day := local.Format("2006-01-02")
	first, err := s.summaryMarks.MarkSummarySent(ctx, userID, day)
	if err != nil {
		return 0, fmt.Errorf("failed to check summary mark: %w", err)
	}
	if !first {
		return 0, nil
	}

	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)
	open, dueToday, err := s.taskRepo.CountOpen(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to count open tasks: %w", err)
	}

	notification := &models.Notification{
		UserID: userID,
		Kind:   models.KindDailySummary,
		Title:  "Daily summary",
		Body:   fmt.Sprintf("%d open tasks, %d due today", open, dueToday),
	}
	if err := s.create(ctx, notification); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *NotificationService) create(ctx context.Context, notification *models.Notification) error {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	// Empty session id: sweep-created notifications reach every open
	// session, there is no originator to suppress.
	if s.publisher != nil {
		s.publisher.Publish(notification.UserID, "", "notification", notification.ID.String(), "created")
	}
	return nil
}

func reminderBody(task *models.Task, now time.Time) string {
	if task.DueDate == nil {
		return ""
	}
	if task.DueDate.Before(now) {
		return fmt.Sprintf("Was due %s", task.DueDate.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("Due %s", task.DueDate.Format("Jan 2, 2006"))
}
