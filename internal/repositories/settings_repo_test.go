package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhv/boardsync/internal/models"
)

func TestSettingsRepository_GetDefaultsForNewUser(t *testing.T) {
	pool := getTestPool(t)
	repo := NewPostgresSettingsRepository(pool)
	ctx := context.Background()

	userID := createTestUser(t, ctx, pool)

	settings, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "UTC", settings.Timezone)
	assert.Equal(t, 8, settings.DailySummaryHour)
	assert.True(t, settings.RemindersEnabled)
	assert.EqualValues(t, 0, settings.Version, "unsaved settings report version 0")
}

func TestSettingsRepository_UpsertCreatesAtVersionOne(t *testing.T) {
	pool := getTestPool(t)
	repo := NewPostgresSettingsRepository(pool)
	ctx := context.Background()

	userID := createTestUser(t, ctx, pool)

	settings := models.DefaultSettings(userID)
	settings.Timezone = "Europe/Berlin"
	require.NoError(t, repo.Upsert(ctx, settings))
	assert.EqualValues(t, 1, settings.Version)
	require.NotNil(t, settings.UpdatedAt)

	retrieved, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", retrieved.Timezone)
	assert.EqualValues(t, 1, retrieved.Version)
}

func TestSettingsRepository_UpsertIncrementsVersion(t *testing.T) {
	pool := getTestPool(t)
	repo := NewPostgresSettingsRepository(pool)
	ctx := context.Background()

	userID := createTestUser(t, ctx, pool)

	settings := models.DefaultSettings(userID)
	require.NoError(t, repo.Upsert(ctx, settings))
	require.EqualValues(t, 1, settings.Version)

	settings.DailySummaryHour = 9
	require.NoError(t, repo.Upsert(ctx, settings))
	assert.EqualValues(t, 2, settings.Version)
}

// Two sessions read version 1; the second writer must be rejected.
func TestSettingsRepository_UpsertDetectsStaleVersion(t *testing.T) {
	pool := getTestPool(t)
	repo := NewPostgresSettingsRepository(pool)
	ctx := context.Background()

	userID := createTestUser(t, ctx, pool)

	settings := models.DefaultSettings(userID)
	require.NoError(t, repo.Upsert(ctx, settings))

	sessionA, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	sessionB, err := repo.Get(ctx, userID)
	require.NoError(t, err)

	sessionA.DailySummaryHour = 7
	require.NoError(t, repo.Upsert(ctx, sessionA))

	sessionB.DailySummaryHour = 21
	err = repo.Upsert(ctx, sessionB)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// The first write wins; the losing write changed nothing.
	current, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 7, current.DailySummaryHour)
}

// A stale version 0 means the row appeared between read and write.
func TestSettingsRepository_CreateRaceIsAConflict(t *testing.T) {
	pool := getTestPool(t)
	repo := NewPostgresSettingsRepository(pool)
	ctx := context.Background()

	userID := createTestUser(t, ctx, pool)

	first := models.DefaultSettings(userID)
	require.NoError(t, repo.Upsert(ctx, first))

	second := models.DefaultSettings(userID)
	err := repo.Upsert(ctx, second)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestSettingsRepository_CalendarSyncRoundTrip(t *testing.T) {
	pool := getTestPool(t)
	repo := NewPostgresSettingsRepository(pool)
	ctx := context.Background()

	userID := createTestUser(t, ctx, pool)

	settings := models.DefaultSettings(userID)
	settings.CalendarSync = models.CalendarSyncSettings{
		Enabled:          true,
		FeedToken:        "0123456789abcdef0123456789abcdef",
		IncludeCompleted: true,
	}
	require.NoError(t, repo.Upsert(ctx, settings))

	retrieved, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, settings.CalendarSync, retrieved.CalendarSync)
}
