package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhv/boardsync/internal/models"
)

func newTestSession(userID uuid.UUID, ttl time.Duration) *models.Session {
	return &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	userID := uuid.New()
	session := newTestSession(userID, 24*time.Hour)
	require.NoError(t, repo.Create(ctx, session))

	retrieved, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, retrieved.UserID)

	// The secondary index lists it under the user.
	sessions, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, session.ID, sessions[0].ID)
}

// Redis evicts the session key at TTL; the set index catches up lazily on the
// next list.
func TestSessionRepository_LazyCleanupOfExpired(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	userID := uuid.New()
	expiring := newTestSession(userID, time.Second)
	require.NoError(t, repo.Create(ctx, expiring))

	stable := newTestSession(userID, 24*time.Hour)
	require.NoError(t, repo.Create(ctx, stable))

	time.Sleep(2 * time.Second)

	sessions, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, stable.ID, sessions[0].ID)

	_, err = repo.GetByID(ctx, expiring.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepository_DeleteRemovesIndexEntry(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	userID := uuid.New()
	session := newTestSession(userID, 24*time.Hour)
	require.NoError(t, repo.Create(ctx, session))

	require.NoError(t, repo.Delete(ctx, session.ID))

	_, err := repo.GetByID(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	sessions, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionRepository_DeleteAllForUser(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newTestSession(userID, 24*time.Hour)))
	}

	sessions, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	require.NoError(t, repo.DeleteAllForUser(ctx, userID))

	sessions, err = repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestPresenceRepository_TTLExpiry(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisPresenceRepository(client)
	ctx := context.Background()

	presence := &models.Presence{
		UserID:    uuid.New(),
		SessionID: uuid.New().String(),
		Status:    string(models.StatusOnline),
		LastSeen:  time.Now(),
	}
	require.NoError(t, repo.SetPresence(ctx, presence, time.Second))

	retrieved, err := repo.GetPresence(ctx, presence.SessionID)
	require.NoError(t, err)
	assert.Equal(t, presence.UserID, retrieved.UserID)

	// A crashed connection never deletes its key; the TTL does.
	time.Sleep(2 * time.Second)
	_, err = repo.GetPresence(ctx, presence.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPresenceRepository_Delete(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisPresenceRepository(client)
	ctx := context.Background()

	presence := &models.Presence{
		UserID:    uuid.New(),
		SessionID: uuid.New().String(),
		Status:    string(models.StatusOnline),
		LastSeen:  time.Now(),
	}
	require.NoError(t, repo.SetPresence(ctx, presence, time.Minute))
	require.NoError(t, repo.DeletePresence(ctx, presence.SessionID))

	_, err := repo.GetPresence(ctx, presence.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummaryMarkRepository_FirstWriteWins(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisSummaryMarkRepository(client)
	ctx := context.Background()

	userID := uuid.New()
	day := time.Now().Format("2006-01-02")

	first, err := repo.MarkSummarySent(ctx, userID, day)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.MarkSummarySent(ctx, userID, day)
	require.NoError(t, err)
	assert.False(t, second)

	// A different day is a fresh mark.
	next, err := repo.MarkSummarySent(ctx, userID, "2099-01-01")
	require.NoError(t, err)
	assert.True(t, next)
}
