package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"cscportal/api/internal/models"
)

const DefaultVisitorKey = "csc:visitors"

// VisitorCounter keeps the site visit count in a single redis key. INCR
// creates the key at zero when it is missing, so concurrent first visits are
// never lost.
type VisitorCounter struct {
	client *redis.Client
	key    string
}

func NewVisitorCounter(client *redis.Client, key string) *VisitorCounter {
	if key == "" {
		key = DefaultVisitorKey
	}
	return &VisitorCounter{client: client, key: key}
}

func (c *VisitorCounter) Increment(ctx context.Context) (int64, error) {
	count, err := c.client.Incr(ctx, c.key).Result()
	if err != nil {
		return 0, models.Dependency("increment visitors", err)
	}
	return count, nil
}

// Read returns the current count, creating the key at zero when absent.
func (c *VisitorCounter) Read(ctx context.Context) (int64, error) {
	if err := c.client.SetNX(ctx, c.key, 0, 0).Err(); err != nil {
		return 0, models.Dependency("init visitors", err)
	}
	count, err := c.client.Get(ctx, c.key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, models.Dependency("read visitors", fmt.Errorf("get %s: %w", c.key, err))
	}
	return count, nil
}

func (c *VisitorCounter) Reset(ctx context.Context) (int64, error) {
	if err := c.client.Set(ctx, c.key, 0, 0).Err(); err != nil {
		return 0, models.Dependency("reset visitors", err)
	}
	return 0, nil
}
