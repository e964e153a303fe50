// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwell-cms/api/internal/platform/constants"
)

// # Redis-Backed Revocation Registry

// RedisRevocationRegistry implements [RevocationRegistry] using Redis.
//
// # Deployment
//
// Revocations recorded by one API instance are visible to every other
// instance immediately, and survive process restarts. Redis TTLs replace the
// in-memory janitor: each entry evicts itself when the underlying token would
// have expired anyway.
type RedisRevocationRegistry struct {
	client *redis.Client
}

// NewRedisRevocationRegistry creates a Redis-backed revocation registry.
func NewRedisRevocationRegistry(client *redis.Client) *RedisRevocationRegistry {
	return &RedisRevocationRegistry{client: client}
}

/*
Revoke marks the token as invalid until its natural expiry.

Parameters:
  - context: context.Context
  - tokenString: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (registry *RedisRevocationRegistry) Revoke(context context.Context, tokenString string, expiresAt time.Time) error {

	// Use constants for key prefix
	key := constants.RedisPrefixRevokedToken + tokenString

	// An already-expired token needs no entry; Redis rejects non-positive TTLs.
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	// Set the marker with TTL
	if err := registry.client.Set(context, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_revocation_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
IsRevoked reports whether the token is on the blacklist.

Parameters:
  - context: context.Context
  - tokenString: string

Returns:
  - bool: true if a revocation marker exists
  - error: Connectivity errors
*/
func (registry *RedisRevocationRegistry) IsRevoked(context context.Context, tokenString string) (bool, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixRevokedToken + tokenString

	// Probe for the marker
	if err := registry.client.Get(context, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_revocation_get_failed: %w", err)
	}

	return true, nil
}
