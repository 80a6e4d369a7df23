package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Varun5711/accounts/internal/auth"
	"github.com/Varun5711/accounts/internal/events"
	"github.com/Varun5711/accounts/internal/lock"
	"github.com/Varun5711/accounts/internal/logger"
	"github.com/Varun5711/accounts/internal/models/account"
	"github.com/Varun5711/accounts/internal/storage"
	"github.com/Varun5711/accounts/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized = errors.New("invalid password")
	ErrForbidden    = errors.New("access to this account is not allowed")
	ErrNotFound     = errors.New("user not found")
	ErrConflict     = errors.New("user email id already exists, please try logging in")
	// ErrStorage covers every failure of a dependency (store, hashing pool,
	// token signing). Callers must not expose the wrapped detail.
	ErrStorage = errors.New("internal server error")
)

// TokenIssuer signs a token for an account id.
type TokenIssuer interface {
	GenerateToken(userID string) (string, time.Time, error)
}

type AccountService struct {
	store            storage.AccountStore
	credentials      *auth.CredentialManager
	tokens           TokenIssuer
	locker           lock.Locker
	lockWait         time.Duration
	publisher        events.Publisher
	publishTimeout   time.Duration
	enforceOwnership bool
	log              *logger.Logger
	now              func() time.Time
}

type Option func(*AccountService)

// lockRetryInterval is how often a busy registration lock is retried.
const lockRetryInterval = 50 * time.Millisecond

// WithLocker serialises concurrent registrations of one email. A request
// that finds the lock held retries for up to wait before reporting a
// conflict, so it sees the outcome of the holder rather than guessing it.
func WithLocker(l lock.Locker, wait time.Duration) Option {
	return func(s *AccountService) {
		s.locker = l
		s.lockWait = wait
	}
}

func WithPublisher(p events.Publisher, timeout time.Duration) Option {
	return func(s *AccountService) {
		s.publisher = p
		s.publishTimeout = timeout
	}
}

// WithOwnershipEnforced controls whether a caller may only read and modify
// the account its token was issued for.
func WithOwnershipEnforced(enforce bool) Option {
	return func(s *AccountService) { s.enforceOwnership = enforce }
}

func NewAccountService(
	store storage.AccountStore,
	credentials *auth.CredentialManager,
	tokens TokenIssuer,
	log *logger.Logger,
	opts ...Option,
) *AccountService {
	s := &AccountService{
		store:            store,
		credentials:      credentials,
		tokens:           tokens,
		locker:           lock.NopLocker{},
		publisher:        events.NopPublisher{},
		publishTimeout:   time.Second,
		enforceOwnership: true,
		log:              log,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AccountService) Register(ctx context.Context, req account.RegisterRequest) (*account.Profile, error) {
	if err := validation.ValidateRegistration(req); err != nil {
		return nil, err
	}

	release, err := s.lock(ctx, req.Email)
	switch {
	case errors.Is(err, lock.ErrLockNotAcquired):
		return nil, ErrConflict
	case err != nil:
		// The unique constraint still protects us; carry on unlocked.
		s.log.Warn("Registration lock unavailable for %s: %v", req.Email, err)
	default:
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("Failed to release registration lock for %s: %v", req.Email, err)
			}
		}()
	}

	count, err := s.store.CountByEmail(ctx, req.Email)
	if err != nil {
		return nil, storageError("count accounts by email", err)
	}
	if count > 0 {
		return nil, ErrConflict
	}

	hash, err := s.credentials.Hash(ctx, req.Password)
	if err != nil {
		return nil, storageError("hash password", err)
	}

	created, err := s.store.Insert(ctx, &account.Account{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, storage.ErrEmailTaken) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, storageError("insert account", err)
	}

	s.log.Info("Registered account %s", created.ID)
	s.publish(ctx, events.AccountRegistered, created.ID, created.Email)

	profile := created.Profile()
	return &profile, nil
}

// lock acquires the registration lock for email, retrying while another
// request holds it and the wait budget lasts.
func (s *AccountService) lock(ctx context.Context, email string) (func(context.Context) error, error) {
	deadline := s.now().Add(s.lockWait)
	for {
		release, err := s.locker.Lock(ctx, email)
		if !errors.Is(err, lock.ErrLockNotAcquired) || !s.now().Before(deadline) {
			return release, err
		}

		t := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, err
		case <-t.C:
		}
	}
}

func (s *AccountService) Login(ctx context.Context, req account.LoginRequest) (*account.LoginResponse, error) {
	if err := validation.ValidateLogin(req); err != nil {
		return nil, err
	}

	a, err := s.store.FindByEmail(ctx, req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("find account by email", err)
	}

	ok, err := s.credentials.Verify(ctx, req.Password, a.PasswordHash)
	if err != nil {
		return nil, storageError("verify password", err)
	}
	if !ok {
		s.publish(ctx, events.AccountLoginFailed, a.ID, a.Email)
		return nil, ErrUnauthorized
	}

	token, _, err := s.tokens.GenerateToken(a.ID)
	if err != nil {
		return nil, storageError("issue token", err)
	}

	s.publish(ctx, events.AccountLoggedIn, a.ID, a.Email)
	return &account.LoginResponse{ID: a.ID, Token: token}, nil
}

func (s *AccountService) Get(ctx context.Context, callerID, id string) (*account.Profile, error) {
	if err := s.authorize(callerID, id); err != nil {
		return nil, err
	}

	a, err := s.store.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("find account", err)
	}

	profile := a.Profile()
	return &profile, nil
}

func (s *AccountService) Update(ctx context.Context, callerID, id string, req account.UpdateRequest) (*account.Profile, error) {
	if err := validation.ValidateUpdate(req); err != nil {
		return nil, err
	}
	if err := s.authorize(callerID, id); err != nil {
		return nil, err
	}

	fields := account.Fields{Name: req.Name}
	if req.Password != nil {
		hash, err := s.credentials.Hash(ctx, *req.Password)
		if err != nil {
			return nil, storageError("hash password", err)
		}
		fields.PasswordHash = &hash
	}

	updated, err := s.store.UpdateFields(ctx, id, fields)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("update account", err)
	}

	s.publish(ctx, events.AccountUpdated, updated.ID, updated.Email)

	profile := updated.Profile()
	return &profile, nil
}

func (s *AccountService) Delete(ctx context.Context, callerID, id string) error {
	if err := s.authorize(callerID, id); err != nil {
		return err
	}

	err := s.store.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storageError("delete account", err)
	}

	s.log.Info("Deleted account %s", id)
	s.publish(ctx, events.AccountDeleted, id, "")
	return nil
}

func (s *AccountService) authorize(callerID, id string) error {
	if s.enforceOwnership && callerID != id {
		return ErrForbidden
	}
	return nil
}

func (s *AccountService) publish(ctx context.Context, typ events.Type, accountID, email string) {
	client := events.ClientFrom(ctx)
	event := &events.AccountEvent{
		Type:      typ,
		AccountID: accountID,
		Email:     email,
		IP:        client.IP,
		UserAgent: client.UserAgent,
		Timestamp: s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish %s for %s: %v", typ, accountID, err)
	}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
