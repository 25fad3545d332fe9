package audit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each entry as a string key. Entries do not expire.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Put(ctx context.Context, e Entry) error {
	ok, err := s.client.SetNX(ctx, e.Key, e.Body, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to write %s to Redis: %w", e.Key, err)
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

// Get returns the stored body for key, or redis.Nil when absent.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.client.Get(ctx, key).Bytes()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
