package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix is the Redis key prefix for session data.
const redisKeyPrefix = "session:"

// RedisStore keeps sessions in Redis as JSON objects with a TTL, so every
// instance behind a load balancer sees the same sessions.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. idleTTL is re-applied on
// every Load to give sliding expiry.
func NewRedisStore(client *redis.Client, idleTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: idleTTL}
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, id string) (map[string]string, error) {
	key := redisKeyPrefix + id

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading session from Redis: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	if values == nil {
		values = make(map[string]string)
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("refreshing session expiry: %w", err)
		}
	}

	return values, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, id string, values map[string]string, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+id, data, ttl).Err(); err != nil {
		return fmt.Errorf("storing session in Redis: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("deleting session from Redis: %w", err)
	}
	return nil
}
