package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/eashaop2023/admineashaop/internal/cache"
)

// BlacklistStore keeps revoked token keys until their ttl runs out.
type BlacklistStore interface {
	Add(ctx context.Context, key string, ttl time.Duration) error
	Has(ctx context.Context, key string) (bool, error)
}

type Blacklist struct {
	store BlacklistStore
	now   func() time.Time
}

func NewBlacklist(store BlacklistStore) *Blacklist {
	return &Blacklist{store: store, now: time.Now}
}

// Revoke blacklists token until expiresAt. Already expired tokens are
// rejected by signature validation anyway and are not stored.
func (b *Blacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	return b.store.Add(ctx, blacklistKey(token), ttl)
}

func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	return b.store.Has(ctx, blacklistKey(token))
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryStore) Add(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = m.now().Add(ttl)
	return nil
}

func (m *MemoryStore) Has(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expires, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	if !m.now().Before(expires) {
		delete(m.entries, key)
		return false, nil
	}
	return true, nil
}

// Prune drops expired entries and returns how many were removed.
func (m *MemoryStore) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for key, expires := range m.entries {
		if !now.Before(expires) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// CacheStore keeps the blacklist in a shared cache so every instance sees a logout.
type CacheStore struct {
	cache cache.Cache
}

func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{cache: c}
}

func (s *CacheStore) Add(ctx context.Context, key string, ttl time.Duration) error {
	return s.cache.Set(ctx, key, []byte("1"), ttl)
}

func (s *CacheStore) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.cache.Get(ctx, key)
	return ok, err
}
