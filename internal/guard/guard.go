// Package guard fences concurrent submissions per key. A held key rejects a
// second Acquire until it is released or its TTL runs out.
package guard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrHeld = errors.New("key is already held")

type Guard interface {
	// Acquire returns a release func. ErrHeld means someone else holds key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

const keyLock = "lock:%s"

// releaseScript deletes the lock only if it still carries our token, so a
// holder whose TTL expired cannot free somebody else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisGuard struct {
	rdb *redis.Client
}

func NewRedisGuard(rdb *redis.Client) *RedisGuard {
	return &RedisGuard{rdb: rdb}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	redisKey := fmt.Sprintf(keyLock, key)
	token := uuid.NewString()

	ok, err := g.rdb.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", redisKey, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, g.rdb, []string{redisKey}, token).Err(); err != nil {
			return fmt.Errorf("redis release %s: %w", redisKey, err)
		}
		return nil
	}, nil
}

type MemoryGuard struct {
	mu    sync.Mutex
	held  map[string]lease
	nowFn func() time.Time
}

type lease struct {
	token     string
	expiresAt time.Time
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]lease), nowFn: time.Now}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.nowFn()
	if l, ok := g.held[key]; ok && now.Before(l.expiresAt) {
		return nil, ErrHeld
	}

	token := uuid.NewString()
	g.held[key] = lease{token: token, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		g.mu.Lock()
		defer g.mu.Unlock()
		if l, ok := g.held[key]; ok && l.token == token {
			delete(g.held, key)
		}
		return nil
	}, nil
}
