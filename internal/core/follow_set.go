package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wanderlist-backend-go/internal/db"
	"wanderlist-backend-go/pkg/cache"
)

// FollowSet is the set of principal IDs a viewer follows.
type FollowSet map[string]struct{}

// Contains reports whether id is followed.
func (f FollowSet) Contains(id string) bool {
	_, ok := f[id]
	return ok
}

// FollowSetLoader loads a viewer's outgoing follow set, optionally through a cache.
// Cached sets may be stale for up to ttl unless Invalidate is called after a graph change.
type FollowSetLoader struct {
	repo   db.FollowRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewFollowSetLoader creates a loader. A nil cache or a zero ttl disables caching.
func NewFollowSetLoader(repo db.FollowRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *FollowSetLoader {
	return &FollowSetLoader{repo: repo, cache: c, ttl: ttl, logger: logger}
}

func followCacheKey(followerID string) string {
	return "follows:" + followerID
}

func (l *FollowSetLoader) cached() bool {
	return l.cache != nil && l.ttl > 0
}

// Following returns the follow set of followerID.
func (l *FollowSetLoader) Following(ctx context.Context, followerID string) (FollowSet, error) {
	if l.cached() {
		raw, found, err := l.cache.Get(ctx, followCacheKey(followerID))
		switch {
		case err != nil:
			l.logger.Warn("Follow cache read failed, loading from store", zap.String("followerId", followerID), zap.Error(err))
		case found:
			var ids []string
			if err := json.Unmarshal([]byte(raw), &ids); err == nil {
				return toFollowSet(ids), nil
			}
			l.logger.Warn("Discarding malformed follow cache entry", zap.String("followerId", followerID))
		}
	}

	ids, err := l.repo.ListFollowing(ctx, followerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load follows of '%s': %w", followerID, err)
	}

	if l.cached() {
		if ids == nil {
			ids = []string{}
		}
		raw, _ := json.Marshal(ids)
		if err := l.cache.Set(ctx, followCacheKey(followerID), string(raw), l.ttl); err != nil {
			l.logger.Warn("Follow cache write failed", zap.String("followerId", followerID), zap.Error(err))
		}
	}
	return toFollowSet(ids), nil
}

// Invalidate drops the cached follow set of followerID.
func (l *FollowSetLoader) Invalidate(ctx context.Context, followerID string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, followCacheKey(followerID)); err != nil {
		l.logger.Warn("Follow cache invalidation failed", zap.String("followerId", followerID), zap.Error(err))
	}
}

func toFollowSet(ids []string) FollowSet {
	set := make(FollowSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
