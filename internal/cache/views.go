package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ViewDeduper throttles job view counting: repeat views of the same
// job by the same viewer inside the TTL window are not recorded.
type ViewDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at the given URL and returns a ViewDeduper.
// URL format: redis://localhost:6379
func New(redisURL string, ttl time.Duration) (*ViewDeduper, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &ViewDeduper{client: client, ttl: ttl}, nil
}

// ShouldCount marks the (job, viewer) pair and reports whether this
// view is the first within the TTL window. Fails open: a Redis error
// counts the view rather than dropping it.
func (d *ViewDeduper) ShouldCount(ctx context.Context, jobID, viewerID string) bool {
	if viewerID == "" {
		return true
	}

	key := buildKey(jobID, viewerID)
	ok, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

// Close releases the underlying Redis connection.
func (d *ViewDeduper) Close() error {
	return d.client.Close()
}

func buildKey(jobID, viewerID string) string {
	return fmt.Sprintf("views:%s:%s", jobID, viewerID)
}
