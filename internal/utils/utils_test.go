package utils

import (
	"context"
	"testing"
	"time"

	"storefront/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(7, "u1@example.com", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateJWT(7, "u1@example.com", "secret", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT(7, "u1@example.com", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}

func TestCacheHelpers(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	ctx := context.Background()

	var out map[string]int
	found, err := GetCache(ctx, rdb, "orders:user:1", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, "orders:user:1", map[string]int{"a": 1}, time.Minute))
	require.NoError(t, SetCache(ctx, rdb, "orders:user:2", map[string]int{"b": 2}, time.Minute))
	found, err = GetCache(ctx, rdb, "orders:user:1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, out["a"])

	require.NoError(t, DeleteCachePrefix(ctx, rdb, "orders:"))
	found, err = GetCache(ctx, rdb, "orders:user:2", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheNilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	var out string
	found, err := GetCache(ctx, nil, "k", &out)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", "v", time.Minute))
	assert.NoError(t, DeleteCache(ctx, nil, "k"))
}

func TestSessionRevocation(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	ctx := context.Background()

	revoked, err := IsSessionRevoked(ctx, rdb, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeSession(ctx, rdb, "tok-1", time.Now().Add(time.Hour)))
	revoked, err = IsSessionRevoked(ctx, rdb, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = IsSessionRevoked(ctx, rdb, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
