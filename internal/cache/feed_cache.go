package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"liveform/internal/model"
)

const feedKey = "live:feed"

// FeedCache holds a short-lived copy of the live feed so polling clients do
// not hit the course collection on every request.
type FeedCache interface {
	Set(ctx context.Context, feed []model.LiveForm) error
	Get(ctx context.Context) ([]model.LiveForm, bool, error)
	Invalidate(ctx context.Context) error
}

type feedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a Redis-backed live feed cache.
func NewFeedCache(client *redis.Client) FeedCache {
	return &feedCache{
		client: client,
		ttl:    5 * time.Second,
	}
}

func (c *feedCache) Set(ctx context.Context, feed []model.LiveForm) error {
	data, err := json.Marshal(feed)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, feedKey, data, c.ttl).Err()
}

func (c *feedCache) Get(ctx context.Context) ([]model.LiveForm, bool, error) {
	data, err := c.client.Get(ctx, feedKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var feed []model.LiveForm
	if err := json.Unmarshal([]byte(data), &feed); err != nil {
		return nil, false, err
	}
	return feed, true, nil
}

func (c *feedCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, feedKey).Err()
}
