package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LocalCache is an in-process Cache backed by go-cache.
// Entries are not shared between replicas.
type LocalCache struct {
	store *gocache.Cache
}

// NewLocalCache creates a LocalCache whose expired entries are purged every cleanupInterval.
func NewLocalCache(defaultExpiration, cleanupInterval time.Duration) *LocalCache {
	return &LocalCache{store: gocache.New(defaultExpiration, cleanupInterval)}
}

func (l *LocalCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := l.store.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (l *LocalCache) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	l.store.Set(key, value, expiration)
	return nil
}

func (l *LocalCache) Delete(_ context.Context, key string) error {
	l.store.Delete(key)
	return nil
}
