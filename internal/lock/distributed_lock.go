// Package lock serialises registrations for the same email address across
// service instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("failed to acquire lock")
	ErrLockNotHeld     = errors.New("lock is not held")
)

// Locker guards a critical section keyed by email. The returned release
// function must be called once the section ends.
type Locker interface {
	Lock(ctx context.Context, email string) (release func(context.Context) error, err error)
}

// NopLocker is used when Redis is not configured; the database unique
// constraint still rejects duplicates.
type NopLocker struct{}

func (NopLocker) Lock(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

const releaseScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`

// EmailLocker takes a short-lived SET NX lock per email in Redis.
type EmailLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEmailLocker(client *redis.Client, ttl time.Duration) *EmailLocker {
	return &EmailLocker{client: client, ttl: ttl}
}

func lockKey(email string) string {
	return "register:email:" + email
}

func (l *EmailLocker) Lock(ctx context.Context, email string) (func(context.Context) error, error) {
	key := lockKey(email)
	value := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, value, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to take registration lock: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	release := func(ctx context.Context) error {
		result, err := l.client.Eval(ctx, releaseScript, []string{key}, value).Int64()
		if err != nil {
			return err
		}
		if result == 0 {
			return ErrLockNotHeld
		}
		return nil
	}
	return release, nil
}
