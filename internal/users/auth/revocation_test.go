// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/api/internal/users/auth"
)

/*
TestMemoryRevocationRegistry verifies blacklist semantics of the in-process
registry.
*/
func TestMemoryRevocationRegistry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	registry := auth.NewMemoryRevocationRegistry(ctx)
	expiry := time.Now().Add(time.Hour)

	// 1. Unknown tokens are not revoked
	revoked, err := registry.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	// 2. Revocation is observable immediately
	require.NoError(t, registry.Revoke(ctx, "token-a", expiry))
	revoked, err = registry.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	// 3. Revoking twice keeps a single entry
	require.NoError(t, registry.Revoke(ctx, "token-a", expiry))
	assert.Equal(t, 1, registry.Len())

	// 4. Entries are independent
	require.NoError(t, registry.Revoke(ctx, "token-b", expiry))
	revoked, err = registry.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 2, registry.Len())
}

/*
TestRedisRevocationRegistry verifies the Redis-backed registry against an
embedded miniredis server, including TTL-bounded retention.
*/
func TestRedisRevocationRegistry(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	registry := auth.NewRedisRevocationRegistry(client)

	// 1. Unknown tokens are not revoked
	revoked, err := registry.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	// 2. Revocation is observable immediately
	require.NoError(t, registry.Revoke(ctx, "token-a", time.Now().Add(time.Hour)))
	revoked, err = registry.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	// 3. An already-expired token never creates an entry
	require.NoError(t, registry.Revoke(ctx, "token-b", time.Now().Add(-time.Minute)))
	revoked, err = registry.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)

	// 4. The entry evicts itself once the token would have expired anyway
	server.FastForward(2 * time.Hour)
	revoked, err = registry.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)
}
