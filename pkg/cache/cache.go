package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the generic cache abstraction shared by the memory, redis and
// multi-level implementations.
type Cache interface {
	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get loads key and unmarshals the stored value into target.
	Get(ctx context.Context, key string, target interface{}) error
	// Delete removes key.
	Delete(ctx context.Context, key string) error
}
