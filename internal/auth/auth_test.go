package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eashaop2023/admineashaop/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(ttl time.Duration) *Manager {
	return &Manager{Secret: []byte("test-secret"), AccessTTL: ttl, Issuer: "admineashaop"}
}

func TestManagerRoundTrip(t *testing.T) {
	m := testManager(time.Hour)
	token, expires, err := m.NewAccessToken("64b7f0c2a1b2c3d4e5f60718", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 2*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.Subject)
}

func TestManagerRejectsForeignAndExpiredTokens(t *testing.T) {
	m := testManager(time.Hour)
	other := &Manager{Secret: []byte("other"), AccessTTL: time.Hour, Issuer: "admineashaop"}
	token, _, err := other.NewAccessToken("x", "admin")
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.Error(t, err)

	expired := testManager(-time.Minute)
	token, _, err = expired.NewAccessToken("x", "admin")
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))
	assert.NoError(t, ComparePassword(hash, "secret1"))
	assert.Error(t, ComparePassword(hash, "secret2"))

	_, err = HashPassword("")
	assert.Error(t, err)
}

func TestRandomPassword(t *testing.T) {
	a, err := RandomPassword(10)
	require.NoError(t, err)
	b, err := RandomPassword(10)
	require.NoError(t, err)
	assert.Len(t, a, 10)
	assert.NotEqual(t, a, b)

	short, err := RandomPassword(2)
	require.NoError(t, err)
	assert.Len(t, short, MinPasswordLength)
}

func TestNewSetupToken(t *testing.T) {
	a, err := NewSetupToken()
	require.NoError(t, err)
	b, err := NewSetupToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestBlacklistMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	bl := NewBlacklist(store)
	bl.now = store.now

	revoked, err := bl.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "tok", now.Add(time.Hour)))
	revoked, err = bl.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	// already expired tokens are not stored
	require.NoError(t, bl.Revoke(ctx, "old", now.Add(-time.Second)))
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Hour)
	revoked, err = bl.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStorePrune(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Add(ctx, "a", time.Minute))
	require.NoError(t, store.Add(ctx, "b", time.Hour))

	now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, store.Prune())
	assert.Equal(t, 1, store.Len())
}

func TestBlacklistCacheStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := cache.NewRedis(mr.Addr(), "", 0)
	defer rc.Close()

	bl := NewBlacklist(NewCacheStore(rc))
	require.NoError(t, bl.Revoke(ctx, "tok", time.Now().Add(time.Minute)))

	revoked, err := bl.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = bl.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}
