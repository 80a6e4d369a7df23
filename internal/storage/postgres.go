package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Varun5711/accounts/internal/database"
	"github.com/Varun5711/accounts/internal/models/account"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresAccountStore struct {
	db *database.DBManager
}

func NewPostgresAccountStore(db *database.DBManager) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

func (s *PostgresAccountStore) Insert(ctx context.Context, a *account.Account) (*account.Account, error) {
	query := `
		INSERT INTO accounts (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, name, email, created_at, updated_at
	`

	var created account.Account
	err := s.db.Write().QueryRow(ctx, query,
		a.ID,
		a.Name,
		a.Email,
		a.PasswordHash,
	).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.CreatedAt,
		&created.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	return &created, nil
}

// FindByID may read a replica, so a profile can trail a just-committed
// update by the replication lag.
func (s *PostgresAccountStore) FindByID(ctx context.Context, id string) (*account.Account, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}

	query := `
		SELECT id::text, name, email, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var a account.Account
	err := s.db.Read().QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &a, nil
}

// FindByEmail serves login, so it reads from the primary: a password hash on
// a lagging replica would reject a just-registered account or accept a
// password that was just changed.
func (s *PostgresAccountStore) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `
		SELECT id::text, name, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`

	var a account.Account
	err := s.db.Write().QueryRow(ctx, query, email).Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &a, nil
}

// CountByEmail reads from the primary so a registration that just committed
// is always visible to the next uniqueness check.
func (s *PostgresAccountStore) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := s.db.Write().QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE email = $1`, email).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// UpdateFields writes the non-nil members of fields in one statement.
func (s *PostgresAccountStore) UpdateFields(ctx context.Context, id string, fields account.Fields) (*account.Account, error) {
	if fields.Empty() {
		return s.FindByID(ctx, id)
	}
	if !isUUID(id) {
		return nil, ErrNotFound
	}

	query := `
		UPDATE accounts
		SET name = COALESCE($2, name),
		    password_hash = COALESCE($3, password_hash),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id::text, name, email, created_at, updated_at
	`

	var a account.Account
	err := s.db.Write().QueryRow(ctx, query, id, fields.Name, fields.PasswordHash).Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return &a, nil
}

func (s *PostgresAccountStore) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}

	tag, err := s.db.Write().Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Ids are UUID columns; anything else can never match a row.
func isUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
