package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a small JSON read-through cache over Redis.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore constructs a Store. A nil client disables caching; FetchJSON then
// always invokes the loader.
func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

// FetchJSON loads the value under key into target, invoking loader and
// caching its result on a miss. Loader errors are never cached.
func (s *Store) FetchJSON(ctx context.Context, key string, target any, loader func(context.Context) (any, error)) error {
	if s == nil || s.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return reencode(value, target)
	}

	full := s.prefix + ":" + key
	raw, err := s.client.Get(ctx, full).Bytes()
	if err == nil {
		return json.Unmarshal(raw, target)
	}
	if err != redis.Nil {
		return fmt.Errorf("platform/cache: get %s: %w", full, err)
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("platform/cache: marshal %s: %w", full, err)
	}
	if err := s.client.Set(ctx, full, encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("platform/cache: set %s: %w", full, err)
	}
	return json.Unmarshal(encoded, target)
}

// Invalidate removes a cached entry.
func (s *Store) Invalidate(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.prefix+":"+key).Err()
}

func reencode(value, target any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, target)
}
