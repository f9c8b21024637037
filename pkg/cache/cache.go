package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching services.
// Get reports found=false, with a nil error, when the key is absent or expired.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}
