package services

import (
	"context"
	"time"
)

// Cache defines the key/value operations shared by the API and workers:
// health checks and the per-session processing locks.
type Cache interface {
	// Ping tests the cache connection
	Ping(ctx context.Context) error

	// SetNX stores value under key only if key is absent. It reports whether
	// the value was stored.
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)

	// Del deletes one or more keys
	Del(ctx context.Context, keys ...string) error

	// DelIfValue deletes key only while it still holds value, so a worker
	// never releases a lock that expired and was taken by another.
	DelIfValue(ctx context.Context, key string, value string) (bool, error)

	// Exists checks if keys exist
	Exists(ctx context.Context, keys ...string) (bool, error)

	// Close closes the cache connection
	Close() error

	// WaitForConnection waits for cache to be available with retries
	WaitForConnection(ctx context.Context) error
}

// SessionLockKey is the cache key that guards one session while a worker
// applies a request to it.
func SessionLockKey(sessionID string) string {
	return "session-lock:" + sessionID
}
