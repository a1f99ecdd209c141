package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore returns an in-process session store. Used in
// development and tests; production deployments use redis.
func NewMemoryStore(defaultTTL time.Duration) Store {
	return &memoryStore{
		cache: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (s *memoryStore) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	val, ok := s.cache.Get(storageKey(sessionID, key))
	if !ok {
		return "", false, nil
	}
	return val.(string), true, nil
}

func (s *memoryStore) Set(_ context.Context, sessionID, key, value string, ttl time.Duration) error {
	s.cache.Set(storageKey(sessionID, key), value, ttl)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, sessionID, key string) error {
	s.cache.Delete(storageKey(sessionID, key))
	return nil
}
