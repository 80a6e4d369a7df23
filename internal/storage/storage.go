package storage

import (
	"context"
	"errors"

	"github.com/Varun5711/accounts/internal/models/account"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("email already registered")
)

// AccountStore persists accounts. Lookups that match nothing return
// ErrNotFound; Insert returns ErrEmailTaken when the email is already used.
type AccountStore interface {
	Insert(ctx context.Context, a *account.Account) (*account.Account, error)
	FindByID(ctx context.Context, id string) (*account.Account, error)
	FindByEmail(ctx context.Context, email string) (*account.Account, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	UpdateFields(ctx context.Context, id string, fields account.Fields) (*account.Account, error)
	Delete(ctx context.Context, id string) error
}
