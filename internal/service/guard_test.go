package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/testutil"
	"storefront/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, f.db, "admin@example.com", "password1", true)
	testutil.CreateUser(t, f.db, "u1@example.com", "password1", false)
	guard := NewAccessGuard(f.identity, "jwt", nil)

	id, err := guard.RequireAdmin(ctx, "Admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, id)

	for _, email := range []string{"u1@example.com", "ghost@example.com", ""} {
		_, err := guard.RequireAdmin(ctx, email)
		assert.True(t, domain.IsKind(err, domain.KindPermissionDenied), "email %q: %v", email, err)
	}
}

func TestRequireAuthenticated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rdb, _ := testutil.NewRedis(t)
	guard := NewAccessGuard(f.identity, "jwt", rdb)

	token, err := utils.GenerateJWT(3, "u1@example.com", "jwt", time.Hour)
	require.NoError(t, err)
	claims, err := guard.RequireAuthenticated(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.Equal(t, uint(3), claims.UserID)

	_, err = guard.RequireAuthenticated(ctx, "")
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
	_, err = guard.RequireAuthenticated(ctx, "garbage")
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))

	forged, err := utils.GenerateJWT(3, "u1@example.com", "other-secret", time.Hour)
	require.NoError(t, err)
	_, err = guard.RequireAuthenticated(ctx, forged)
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))

	require.NoError(t, utils.RevokeSession(ctx, rdb, claims.ID, claims.ExpiresAt.Time))
	_, err = guard.RequireAuthenticated(ctx, token)
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
}
