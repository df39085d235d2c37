package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const summaryMarkPrefix = "summary:"
const summaryMarkTTL = 48 * time.Hour

// RedisSummaryMarkRepository deduplicates daily summaries: at most one per
// user per local day, across however many times the sweep runs.
type RedisSummaryMarkRepository struct {
	client *redis.Client
}

func NewRedisSummaryMarkRepository(client *redis.Client) *RedisSummaryMarkRepository {
	return &RedisSummaryMarkRepository{client: client}
}

// MarkSummarySent records the (user, day) pair and reports whether this call
// was the first to do so. SetNX makes the check-and-set atomic.
func (r *RedisSummaryMarkRepository) MarkSummarySent(ctx context.Context, userID uuid.UUID, day string) (bool, error) {
	key := fmt.Sprintf("%s%s:%s", summaryMarkPrefix, userID, day)

	first, err := r.client.SetNX(ctx, key, "1", summaryMarkTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark summary sent: %w", err)
	}
	return first, nil
}
