package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhv/boardsync/internal/events"
	"github.com/anirudhv/boardsync/internal/models"
	"github.com/anirudhv/boardsync/internal/repotest"
)

type sweepFixture struct {
	svc       *NotificationService
	tasks     *repotest.TaskRepo
	notifs    *repotest.NotificationRepo
	settings  *repotest.SettingsRepo
	bus       *events.Bus
	userID    uuid.UUID
	fixedTime time.Time
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()

	userRepo := repotest.NewUserRepo()
	user := &models.User{Email: "ana@example.com", PasswordHash: "hash"}
	require.NoError(t, userRepo.Create(context.Background(), user))

	taskRepo := repotest.NewTaskRepo()
	notifRepo := repotest.NewNotificationRepo(taskRepo)
	settingsRepo := repotest.NewSettingsRepo()
	bus := events.NewBus()

	svc := NewNotificationService(
		userRepo, taskRepo, notifRepo, settingsRepo,
		repotest.NewSummaryMarks(), NewSyncPublisher(bus),
	)

	// Noon UTC: past the default 8:00 summary hour.
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	return &sweepFixture{
		svc:       svc,
		tasks:     taskRepo,
		notifs:    notifRepo,
		settings:  settingsRepo,
		bus:       bus,
		userID:    user.ID,
		fixedTime: fixed,
	}
}

func (f *sweepFixture) addTask(t *testing.T, task *models.Task) *models.Task {
	t.Helper()
	task.UserID = f.userID
	task.Normalize()
	require.NoError(t, f.tasks.Create(context.Background(), task))
	return task
}

func TestCheckDueDates_CreatesReminderOnce(t *testing.T) {
	f := newSweepFixture(t)
	past := f.fixedTime.Add(-time.Hour)
	f.addTask(t, &models.Task{Title: "Call the bank", ReminderAt: &past})

	result, err := f.svc.CheckDueDates(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Reminders)

	// A second sweep must not duplicate the reminder.
	result, err = f.svc.CheckDueDates(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Reminders)
}

func TestCheckDueDates_CreatesOverdueNotice(t *testing.T) {
	f := newSweepFixture(t)
	due := f.fixedTime.Add(-48 * time.Hour)
	f.addTask(t, &models.Task{Title: "File taxes", DueDate: &due})

	result, err := f.svc.CheckDueDates(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Overdue)

	notifications, err := f.notifs.ListByUserID(context.Background(), f.userID, 0)
	require.NoError(t, err)
	require.NotEmpty(t, notifications)
	assert.Equal(t, models.KindOverdue, notifications[len(notifications)-1].Kind)
	assert.Contains(t, notifications[len(notifications)-1].Title, "File taxes")
}

func TestCheckDueDates_CompletedTasksSkipped(t *testing.T) {
	f := newSweepFixture(t)
	due := f.fixedTime.Add(-time.Hour)
	f.addTask(t, &models.Task{Title: "Done already", DueDate: &due, Status: models.StatusDone})

	result, err := f.svc.CheckDueDates(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Overdue)
}

func TestCheckDueDates_DailySummaryOncePerDay(t *testing.T) {
	f := newSweepFixture(t)
	due := f.fixedTime.Add(2 * time.Hour)
	f.addTask(t, &models.Task{Title: "Due later today", DueDate: &due})

	result, err := f.svc.CheckDueDates(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summaries)

	result, err = f.svc.CheckDueDates(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Summaries, "summary must be deduplicated within a day")
}

func TestCheckDueDates_SummaryWaitsForConfiguredHour(t *testing.T) {
	f := newSweepFixture(t)

	settings := models.DefaultSettings(f.userID)
	settings.DailySummaryHour = 20 // evening, later than the fixed noon clock
	require.NoError(t, f.settings.Upsert(context.Background(), settings))

	result, err := f.svc.CheckDueDates(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Summaries)
}

func TestCheckDueDates_RemindersDisabled(t *testing.T) {
	f := newSweepFixture(t)
	past := f.fixedTime.Add(-time.Hour)
	f.addTask(t, &models.Task{Title: "Muted", ReminderAt: &past})

	settings := models.DefaultSettings(f.userID)
	settings.RemindersEnabled = false
	require.NoError(t, f.settings.Upsert(context.Background(), settings))

	result, err := f.svc.CheckDueDates(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Reminders)
}

// Sweep-created notifications are published with an empty session id so
// every open session, including the one that triggered the sweep, sees them.
func TestCheckDueDates_PublishesSyncEvents(t *testing.T) {
	f := newSweepFixture(t)
	past := f.fixedTime.Add(-time.Hour)
	f.addTask(t, &models.Task{Title: "Call the bank", ReminderAt: &past})

	var received []events.SyncEvent
	f.bus.On(events.EventSync, func(ev events.SyncEvent) {
		received = append(received, ev)
	})

	_, err := f.svc.CheckDueDates(context.Background(), f.userID)
	require.NoError(t, err)

	require.NotEmpty(t, received)
	for _, ev := range received {
		assert.Equal(t, f.userID, ev.UserID)
		assert.Empty(t, ev.SessionID)
		assert.Equal(t, "notification", ev.EntityType)
	}
}

func TestSweepAllUsers_CoversEveryUser(t *testing.T) {
	f := newSweepFixture(t)
	past := f.fixedTime.Add(-time.Hour)
	f.addTask(t, &models.Task{Title: "Call the bank", ReminderAt: &past})

	f.svc.SweepAllUsers(context.Background())

	notifications, err := f.notifs.ListByUserID(context.Background(), f.userID, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, notifications)
}
