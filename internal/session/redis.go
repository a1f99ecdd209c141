package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

// RedisConfig holds redis session store configuration
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
}

// NewRedisStore connects to redis and returns a session store backed
// by it.
func NewRedisStore(cfg RedisConfig) (Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisStore{client: client}, nil
}

func (s *redisStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, storageKey(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session value: %w", err)
	}
	return val, true, nil
}

func (s *redisStore) Set(ctx context.Context, sessionID, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, storageKey(sessionID, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session value: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.client.Del(ctx, storageKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}
	return nil
}
