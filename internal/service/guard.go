package service

import (
	"context" // Request scoping
	"strings" // Token trimming

	"storefront/internal/domain" // Importing domain models
	"storefront/internal/utils"  // JWT and session helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// AccessGuard decides who may read carts and orders and who may change tracking
type AccessGuard struct {
	identity  *IdentityResolver
	jwtSecret string
	rdb       *redis.Client // Optional, holds revoked sessions
}

func NewAccessGuard(identity *IdentityResolver, jwtSecret string, rdb *redis.Client) *AccessGuard {
	return &AccessGuard{identity: identity, jwtSecret: jwtSecret, rdb: rdb}
}

// RequireAuthenticated validates a session token and returns its claims
func (g *AccessGuard) RequireAuthenticated(ctx context.Context, token string) (*utils.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.NewError(domain.KindUnauthorized, "Missing session")
	}
	claims, err := utils.ParseJWT(token, g.jwtSecret)
	if err != nil || claims.Email == "" {
		return nil, domain.NewError(domain.KindUnauthorized, "Invalid or expired session")
	}
	revoked, err := utils.IsSessionRevoked(ctx, g.rdb, claims.ID)
	if err != nil {
		// Fail closed when the revocation list cannot be read
		logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("Session revocation check failed")
		return nil, domain.NewError(domain.KindUnauthorized, "Session could not be verified")
	}
	if revoked {
		return nil, domain.NewError(domain.KindUnauthorized, "Session has been logged out")
	}
	return claims, nil
}

// RequireAdmin resolves the actor and checks the admin flag
func (g *AccessGuard) RequireAdmin(ctx context.Context, actorEmail string) (uint, error) {
	user, err := g.identity.LookupEmail(ctx, actorEmail)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) || domain.IsKind(err, domain.KindInvalidInput) {
			return 0, domain.NewError(domain.KindPermissionDenied, "Admin access required")
		}
		return 0, err
	}
	if !user.IsAdmin {
		return 0, domain.NewError(domain.KindPermissionDenied, "Admin access required")
	}
	return user.ID, nil
}
