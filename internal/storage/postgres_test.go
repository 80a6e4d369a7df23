package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Varun5711/accounts/internal/database"
	"github.com/Varun5711/accounts/internal/models/account"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUUID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"4f9c4a1e-2b8c-4f63-9d2e-7d8f0b6a1c11", true},
		{"not-a-uuid", false},
		{"", false},
		{"{4f9c4a1e-2b8c-4f63-9d2e-7d8f0b6a1c11}", false},
		{"urn:uuid:4f9c4a1e-2b8c-4f63-9d2e-7d8f0b6a1c11", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isUUID(tt.id), tt.id)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

// newPostgresStore connects to ACCOUNTS_TEST_DSN and applies migrations.
// Tests using it are skipped when the variable is unset.
func newPostgresStore(t *testing.T) *PostgresAccountStore {
	t.Helper()

	dsn := os.Getenv("ACCOUNTS_TEST_DSN")
	if dsn == "" {
		t.Skip("ACCOUNTS_TEST_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewDBManager(ctx, database.Config{
		PrimaryDSN:      dsn,
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Minute,
		MaxConnIdleTime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	return NewPostgresAccountStore(db)
}

func uniqueEmail() string {
	return fmt.Sprintf("pg-%s@example.com", uuid.NewString()[:8])
}

func TestPostgresAccountStore_Lifecycle(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	a := newAccount(uniqueEmail())
	created, err := s.Insert(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, a.ID, created.ID)
	assert.Empty(t, created.PasswordHash)

	_, err = s.Insert(ctx, newAccount(a.Email))
	assert.ErrorIs(t, err, ErrEmailTaken)

	count, err := s.CountByEmail(ctx, a.Email)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	withHash, err := s.FindByEmail(ctx, a.Email)
	require.NoError(t, err)
	assert.Equal(t, "hash", withHash.PasswordHash)

	updated, err := s.UpdateFields(ctx, a.ID, account.Fields{Name: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	withHash, err = s.FindByEmail(ctx, a.Email)
	require.NoError(t, err)
	assert.Equal(t, "hash", withHash.PasswordHash)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrNotFound)

	_, err = s.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresAccountStore_MalformedIDIsNotFound(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	_, err := s.FindByID(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateFields(ctx, "abc", account.Fields{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "abc"), ErrNotFound)
}

func TestPostgresAccountStore_LoginReadsPrimary(t *testing.T) {
	primary := newPostgresStore(t) // skips without a DSN and runs migrations
	dsn := os.Getenv("ACCOUNTS_TEST_DSN")

	// A "replica" whose search_path hides the accounts table: anything
	// routed to it fails, anything routed to the primary succeeds.
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := database.NewDBManager(ctx, database.Config{
		PrimaryDSN:      dsn,
		ReplicaDSNs:     []string{dsn + sep + "search_path=no_such_schema"},
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: time.Minute,
		MaxConnIdleTime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	s := NewPostgresAccountStore(db)

	a := newAccount(uniqueEmail())
	_, err = primary.Insert(ctx, a)
	require.NoError(t, err)

	found, err := s.FindByEmail(ctx, a.Email)
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	n, err := s.CountByEmail(ctx, a.Email)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.FindByID(ctx, a.ID)
	assert.Error(t, err, "profile reads go to the replica")
}
