package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps one cart per student. A missing cart reads as the empty Cart.
type Store interface {
	Get(ctx context.Context, studentID string) (Cart, error)
	Put(ctx context.Context, studentID string, c Cart) error
	Delete(ctx context.Context, studentID string) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]Cart)}
}

func (s *MemoryStore) Get(_ context.Context, studentID string) (Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.carts[studentID].clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, studentID string, c Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.IsEmpty() {
		delete(s.carts, studentID)
		return nil
	}
	s.carts[studentID] = c.clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, studentID)
	return nil
}

const keyCart = "cart:%s"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, studentID string) (Cart, error) {
	raw, err := s.rdb.Get(ctx, fmt.Sprintf(keyCart, studentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Cart{}, nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("redis get cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (s *RedisStore) Put(ctx context.Context, studentID string, c Cart) error {
	if c.IsEmpty() {
		return s.Delete(ctx, studentID)
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(keyCart, studentID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, studentID string) error {
	if err := s.rdb.Del(ctx, fmt.Sprintf(keyCart, studentID)).Err(); err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	return nil
}
