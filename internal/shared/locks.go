package shared

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DepreciationRunKey builds the redis key guarding the nightly batch.
func DepreciationRunKey() string {
	return "assets:depreciation:run:lock"
}

// RunLock is a coarse redis mutex for batch critical sections. Only one
// holder may run at a time; contenders back off instead of waiting.
type RunLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRunLock constructs a RunLock with the given key and expiry.
func NewRunLock(client *redis.Client, key string, ttl time.Duration) *RunLock {
	return &RunLock{client: client, key: key, ttl: ttl}
}

// Acquire attempts to take the lock. It returns false when another run holds it.
func (l *RunLock) Acquire(ctx context.Context) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	return l.client.SetNX(ctx, l.key, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
}

// Release drops the lock. Safe to call when the lock expired.
func (l *RunLock) Release(ctx context.Context) {
	if l == nil || l.client == nil {
		return
	}
	_ = l.client.Del(ctx, l.key).Err()
}
