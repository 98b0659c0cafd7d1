package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/folio-hub/portfolio-service/internal/cache"
)

// RedisStore keeps sessions in Redis under the "session:" prefix.
type RedisStore struct {
	cache *cache.CacheHelper
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{cache: cache.NewCacheManager(client).Sessions}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	if err := r.cache.Get(ctx, id, &s); err != nil {
		if errors.Is(err, cache.ErrCacheNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.ID = id
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	if err := r.cache.Set(ctx, s.ID, s, ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	if err := r.cache.Touch(ctx, id, ttl); err != nil {
		if errors.Is(err, cache.ErrCacheNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
