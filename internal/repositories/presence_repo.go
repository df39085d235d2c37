package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anirudhv/boardsync/internal/models"
)

const presencePrefix = "presence:"

// RedisPresenceRepository tracks which sessions currently hold an open event
// stream. Entries carry a TTL refreshed by the stream heartbeat, so a crashed
// connection goes offline on its own.
type RedisPresenceRepository struct {
	client *redis.Client
}

func NewRedisPresenceRepository(client *redis.Client) *RedisPresenceRepository {
	return &RedisPresenceRepository{client: client}
}

func (r *RedisPresenceRepository) SetPresence(ctx context.Context, presence *models.Presence, ttl time.Duration) error {
	jsonData, err := json.Marshal(presence)
	if err != nil {
		return fmt.Errorf("failed to marshal presence: %w", err)
	}

	key := fmt.Sprintf("%s%s", presencePrefix, presence.SessionID)
	if err := r.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set presence: %w", err)
	}
	return nil
}

func (r *RedisPresenceRepository) GetPresence(ctx context.Context, sessionID string) (*models.Presence, error) {
	key := fmt.Sprintf("%s%s", presencePrefix, sessionID)

	jsonData, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get presence: %w", err)
	}

	var presence models.Presence
	if err := json.Unmarshal([]byte(jsonData), &presence); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presence: %w", err)
	}
	return &presence, nil
}

func (r *RedisPresenceRepository) DeletePresence(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("%s%s", presencePrefix, sessionID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete presence: %w", err)
	}
	return nil
}
