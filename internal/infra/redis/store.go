package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps key-value entries as plain Redis strings.
// Keys are stored as: SET kv:{key} {value} [EX ttl]
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns a Redis-backed kvstore.Store. A zero ttl keeps entries forever.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, s.ttl).Err()
}

func (s *Store) key(key string) string {
	return "kv:" + key
}
