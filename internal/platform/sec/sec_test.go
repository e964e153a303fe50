// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/api/internal/platform/sec"
)

// # Token Service

/*
TestTokenService_RoundTrip verifies that issued tokens verify and carry the
identity claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "inkwell-test", time.Hour)
	require.NoError(t, err)

	tokenString, err := service.Issue(42, "alice", sec.RoleAuthor)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := service.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "author", claims.Role)
	assert.Equal(t, "inkwell-test", claims.Issuer)
	assert.True(t, claims.Complete())
}

/*
TestTokenService_Expired verifies that expiry produces the dedicated sentinel,
distinct from a signature failure.
*/
func TestTokenService_Expired(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "inkwell-test", time.Hour)
	require.NoError(t, err)

	// Issue a token two hours in the past so it is already expired
	past := time.Now().Add(-2 * time.Hour)
	service.WithClock(func() time.Time { return past })
	tokenString, err := service.Issue(42, "alice", sec.RoleUser)
	require.NoError(t, err)

	// Verify against the real clock
	service.WithClock(time.Now)
	_, err = service.Verify(tokenString)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
	assert.NotErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestTokenService_Invalid verifies that tampered and foreign-key tokens fail
with the invalid sentinel.
*/
func TestTokenService_Invalid(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "inkwell-test", time.Hour)
	require.NoError(t, err)

	// 1. Garbage is invalid, not expired
	_, err = service.Verify("not.a.jwt")
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)

	// 2. A token signed with a different secret fails verification
	other, err := sec.NewTokenService("other-secret", "inkwell-test", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue(42, "alice", sec.RoleUser)
	require.NoError(t, err)

	_, err = service.Verify(foreign)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)

	// 3. An empty secret is rejected at construction
	_, err = sec.NewTokenService("", "inkwell-test", time.Hour)
	require.Error(t, err)
}

/*
TestTokenService_Decode verifies unverified claim extraction for diagnostics.
*/
func TestTokenService_Decode(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "inkwell-test", time.Hour)
	require.NoError(t, err)

	tokenString, err := service.Issue(42, "alice", sec.RoleUser)
	require.NoError(t, err)

	claims, err := service.Decode(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

// # Password Hashing

/*
TestPasswordHashing verifies the hash/check round trip and salting.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "passw0rd", hash)

	// 1. Matching password verifies
	assert.True(t, sec.CheckPasswordHash("passw0rd", hash))

	// 2. Wrong password does not
	assert.False(t, sec.CheckPasswordHash("Passw0rd", hash))

	// 3. Hashing is salted: same input, different output
	second, err := sec.HashPassword("passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, hash, second)
}

// # Roles & Status

/*
TestParseRole verifies normalization and the closed-set contract.
*/
func TestParseRole(t *testing.T) {
	tests := []struct {
		raw      string
		expected sec.Role
		known    bool
	}{
		{"admin", sec.RoleAdmin, true},
		{"Admin", sec.RoleAdmin, true},
		{"  AUTHOR  ", sec.RoleAuthor, true},
		{"user", sec.RoleUser, true},
		{"visitor", sec.RoleVisitor, true},
		{"superhero", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		role, ok := sec.ParseRole(tt.raw)
		assert.Equal(t, tt.known, ok, "raw=%q", tt.raw)
		assert.Equal(t, tt.expected, role, "raw=%q", tt.raw)
	}

	assert.True(t, sec.RoleAdmin.IsAdmin())
	assert.False(t, sec.RoleAuthor.IsAdmin())
}

/*
TestParseStatus verifies normalization and the closed-set contract.
*/
func TestParseStatus(t *testing.T) {
	status, ok := sec.ParseStatus("BANNED")
	assert.True(t, ok)
	assert.Equal(t, sec.StatusBanned, status)

	_, ok = sec.ParseStatus("suspended")
	assert.False(t, ok)
}

// # Identity

/*
TestIdentity_HasPermission verifies granular checks and the admin bypass.
*/
func TestIdentity_HasPermission(t *testing.T) {
	member := &sec.Identity{
		ID:          1,
		Role:        sec.RoleUser,
		Permissions: []string{"user:list", "content:create"},
	}

	// 1. Direct grants pass, everything else fails
	assert.True(t, member.HasPermission("user:list"))
	assert.False(t, member.HasPermission("user:delete"))
	assert.True(t, member.HasAnyPermission("user:delete", "content:create"))
	assert.False(t, member.HasAnyPermission("user:delete", "content:publish"))

	// 2. Admins pass every check, with or without explicit grants
	admin := &sec.Identity{ID: 2, Role: sec.RoleAdmin}
	assert.True(t, admin.HasPermission("anything:at-all"))
	assert.True(t, admin.HasAnyPermission())
}
