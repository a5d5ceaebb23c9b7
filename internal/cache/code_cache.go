package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// CodeCache reserves connect codes across server instances so two courses
// cannot hand out the same code for concurrently running sessions. Reservations
// are best-effort: the authoritative check stays inside the course document.
type CodeCache interface {
	Reserve(ctx context.Context, code int) (bool, error)
	Release(ctx context.Context, code int) error
}

type codeCache struct {
	client *redis.Client
}

// NewCodeCache creates a Redis-backed connect-code reservation cache.
func NewCodeCache(client *redis.Client) CodeCache {
	return &codeCache{client: client}
}

func (c *codeCache) key(code int) string {
	return fmt.Sprintf("connectcode:%06d", code)
}

func (c *codeCache) Reserve(ctx context.Context, code int) (bool, error) {
	return c.client.SetNX(ctx, c.key(code), "1", 0).Result()
}

func (c *codeCache) Release(ctx context.Context, code int) error {
	return c.client.Del(ctx, c.key(code)).Err()
}

// InMemoryCodeCache is a map-backed CodeCache for unit tests.
type InMemoryCodeCache struct {
	mu    sync.Mutex
	codes map[int]bool
}

// NewInMemoryCodeCache creates an empty in-memory reservation cache.
func NewInMemoryCodeCache() *InMemoryCodeCache {
	return &InMemoryCodeCache{codes: make(map[int]bool)}
}

func (c *InMemoryCodeCache) Reserve(ctx context.Context, code int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.codes[code] {
		return false, nil
	}
	c.codes[code] = true
	return true, nil
}

func (c *InMemoryCodeCache) Release(ctx context.Context, code int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.codes, code)
	return nil
}
