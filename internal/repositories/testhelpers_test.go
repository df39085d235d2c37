package repositories

// Shared setup for the repository tests. These tests run against live
// infrastructure and are skipped unless TEST_DATABASE_URL / TEST_REDIS_URL
// point at disposable instances with the migrations applied.

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/anirudhv/boardsync/internal/models"
)

func getTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres tests")
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(context.Background()), "test database unreachable")
	return pool
}

func getTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set, skipping redis tests")
	}

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err, "invalid TEST_REDIS_URL")

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err(), "test redis unreachable")
	return client
}

// createTestUser inserts a user with a unique email and registers a hard
// delete so the cascade removes dependent rows.
func createTestUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	userRepo := NewPostgresUserRepository(pool)
	user := &models.User{
		Email:        "test-" + uuid.New().String() + "@example.com",
		PasswordHash: "test-hash",
	}
	require.NoError(t, userRepo.Create(ctx, user))

	t.Cleanup(func() {
		if _, err := pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID); err != nil {
			t.Logf("warning: failed to cleanup test user: %v", err)
		}
	})
	return user.ID
}
