package storage

import (
	"context"
	"hash/fnv"
	"sync/atomic"

	"github.com/Varun5711/accounts/internal/cache"
	"github.com/Varun5711/accounts/internal/logger"
	"github.com/Varun5711/accounts/internal/models/account"
)

// generationSlots bounds the invalidation counters; ids that share a slot
// only cost each other an occasional skipped fill.
const generationSlots = 256

// CachedAccountStore serves FindByID from a read-through cache. Only the
// public profile is cached; password hashes never leave the backing store.
//
// Writes invalidate rather than refresh. Every write bumps the id's
// generation after it reaches the backing store, and a read only keeps the
// entry it filled if the generation did not move meanwhile, so a read racing
// a delete or update cannot resurrect the old row.
type CachedAccountStore struct {
	AccountStore
	cache       *cache.Cache
	log         *logger.Logger
	generations [generationSlots]atomic.Uint64
}

func NewCachedAccountStore(inner AccountStore, c *cache.Cache, log *logger.Logger) *CachedAccountStore {
	return &CachedAccountStore{
		AccountStore: inner,
		cache:        c,
		log:          log,
	}
}

func cacheKey(id string) string {
	return "account:" + id
}

func (s *CachedAccountStore) generation(id string) *atomic.Uint64 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &s.generations[h.Sum32()%generationSlots]
}

func (s *CachedAccountStore) FindByID(ctx context.Context, id string) (*account.Account, error) {
	var cached account.Account
	found, err := s.cache.GetJSON(ctx, cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("Discarding unreadable cache entry for %s: %v", id, err)
	}
	if found && err == nil {
		return &cached, nil
	}

	gen := s.generation(id)
	before := gen.Load()

	a, err := s.AccountStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, a)
	if gen.Load() != before {
		s.forget(ctx, id)
	}
	return a, nil
}

func (s *CachedAccountStore) UpdateFields(ctx context.Context, id string, fields account.Fields) (*account.Account, error) {
	a, err := s.AccountStore.UpdateFields(ctx, id, fields)
	s.invalidate(ctx, id)
	return a, err
}

func (s *CachedAccountStore) Delete(ctx context.Context, id string) error {
	err := s.AccountStore.Delete(ctx, id)
	s.invalidate(ctx, id)
	return err
}

func (s *CachedAccountStore) invalidate(ctx context.Context, id string) {
	s.generation(id).Add(1)
	s.forget(ctx, id)
}

func (s *CachedAccountStore) remember(ctx context.Context, a *account.Account) {
	public := *a
	public.PasswordHash = ""
	if err := s.cache.SetJSON(ctx, cacheKey(a.ID), public); err != nil {
		s.log.Warn("Failed to cache account %s: %v", a.ID, err)
	}
}

func (s *CachedAccountStore) forget(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.log.Warn("Failed to evict account %s from cache: %v", id, err)
	}
}
