package utils

import (
	"context" // Context for Redis operations
	"time"    // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

const revokedPrefix = "session:revoked:"

// RevokeSession marks a token id as logged out until the token would have expired anyway
func RevokeSession(ctx context.Context, rdb *redis.Client, tokenID string, expiresAt time.Time) error {
	if rdb == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // Already expired
	}
	return rdb.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err()
}

// IsSessionRevoked reports whether a token id was logged out
func IsSessionRevoked(ctx context.Context, rdb *redis.Client, tokenID string) (bool, error) {
	if rdb == nil || tokenID == "" {
		return false, nil
	}
	n, err := rdb.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
