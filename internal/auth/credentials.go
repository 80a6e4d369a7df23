package auth

import (
	"context"
	"fmt"
)

// Submitter runs a function off the caller's goroutine and waits for it.
// *workerpool.Pool satisfies it.
type Submitter interface {
	Submit(ctx context.Context, fn func()) error
}

// CredentialManager hashes and verifies passwords on a bounded pool so the
// deliberately slow bcrypt work never runs on the request goroutine.
type CredentialManager struct {
	pool Submitter
	cost int
}

func NewCredentialManager(pool Submitter, cost int) *CredentialManager {
	return &CredentialManager{pool: pool, cost: normalizeCost(cost)}
}

func (m *CredentialManager) Hash(ctx context.Context, password string) (string, error) {
	var (
		hash    string
		hashErr error
	)

	if err := m.pool.Submit(ctx, func() {
		hash, hashErr = HashPassword(password, m.cost)
	}); err != nil {
		return "", fmt.Errorf("hash job: %w", err)
	}

	return hash, hashErr
}

// Verify reports whether password matches hash. A mismatch or an unusable
// stored hash is (false, nil); errors are reserved for scheduling failures.
func (m *CredentialManager) Verify(ctx context.Context, password, hash string) (bool, error) {
	var ok bool

	if err := m.pool.Submit(ctx, func() {
		ok = ComparePassword(hash, password)
	}); err != nil {
		return false, fmt.Errorf("verify job: %w", err)
	}

	return ok, nil
}
