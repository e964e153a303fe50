// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/api/internal/platform/ctxutil"
	"github.com/inkwell-cms/api/internal/platform/middleware"
	requestutil "github.com/inkwell-cms/api/internal/platform/request"
	"github.com/inkwell-cms/api/internal/platform/sec"
)

// # Test Doubles

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, tokenString string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[tokenString], nil
}

type fakeSubjects struct {
	subjects map[int64]*middleware.Subject
	err      error
}

func (f *fakeSubjects) FindSubject(_ context.Context, id int64) (*middleware.Subject, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subjects[id], nil
}

type fakePermissions struct {
	codes map[int64][]string
	err   error
}

func (f *fakePermissions) ResolveEffective(_ context.Context, userID int64, _ sec.Role) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.codes[userID], nil
}

// gateFixture bundles the gate collaborators with working defaults.
type gateFixture struct {
	tokens      *sec.TokenService
	revocations *fakeRevocations
	subjects    *fakeSubjects
	permissions *fakePermissions
	allowlist   *middleware.Allowlist
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret", "inkwell-test", time.Hour)
	require.NoError(t, err)

	return &gateFixture{
		tokens:      tokens,
		revocations: &fakeRevocations{revoked: map[string]bool{}},
		subjects: &fakeSubjects{subjects: map[int64]*middleware.Subject{
			42: {ID: 42, Username: "alice", Role: sec.RoleUser, Status: sec.StatusActive},
		}},
		permissions: &fakePermissions{codes: map[int64][]string{
			42: {"content:create"},
		}},
		allowlist: middleware.NewAllowlist([]string{"/health", "/api/v1/auth/*"}),
	}
}

// serve runs one request through the gate and captures the response plus the
// identity observed by the downstream handler.
func (fixture *gateFixture) serve(t *testing.T, target, authorization string) (*httptest.ResponseRecorder, *sec.Identity) {
	t.Helper()

	var observed *sec.Identity
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		observed = ctxutil.GetIdentity(request.Context())
		writer.WriteHeader(http.StatusOK)
	})

	gate := middleware.Authenticate(fixture.tokens, fixture.revocations, fixture.subjects, fixture.permissions, fixture.allowlist)

	request := httptest.NewRequest(http.MethodGet, target, nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	gate(next).ServeHTTP(recorder, request)

	return recorder, observed
}

// envelope mirrors the wire error shape for assertions.
type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// # Gate Stages

/*
TestAuthenticate_Allowlist verifies that exempt paths bypass the gate and
stay anonymous.
*/
func TestAuthenticate_Allowlist(t *testing.T) {
	fixture := newGateFixture(t)

	// 1. Exact match passes with no credentials
	recorder, identity := fixture.serve(t, "/health", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, identity)

	// 2. Prefix match passes too
	recorder, identity = fixture.serve(t, "/api/v1/auth/login", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, identity)

	// 3. Everything else requires credentials
	recorder, _ = fixture.serve(t, "/api/v1/articles", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestAuthenticate_HeaderShapes verifies rejection of missing, malformed, and
empty Authorization headers.
*/
func TestAuthenticate_HeaderShapes(t *testing.T) {
	fixture := newGateFixture(t)

	tests := []struct {
		name          string
		authorization string
		wantMsg       string
	}{
		{"missing_header", "", "You must log in first"},
		{"not_bearer", "Basic abc123", "Invalid authorization format"},
		{"no_token", "Bearer ", "You must log in first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, _ := fixture.serve(t, "/api/v1/articles", tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)

			body := decodeEnvelope(t, recorder)
			assert.Equal(t, "UNAUTHENTICATED", body.Code)
			assert.Equal(t, tt.wantMsg, body.Msg)
		})
	}
}

/*
TestAuthenticate_SchemeCasing verifies the gate and the handler-side token
extraction agree on non-canonical scheme casing: a header the gate accepts
must yield the same token string to [requestutil.BearerToken], or logout
would revoke something other than the live credential.
*/
func TestAuthenticate_SchemeCasing(t *testing.T) {
	fixture := newGateFixture(t)

	token, err := fixture.tokens.Issue(42, "alice", sec.RoleUser)
	require.NoError(t, err)

	for _, header := range []string{
		"Bearer " + token,
		"bearer " + token,
		"BEARER " + token,
	} {
		recorder, identity := fixture.serve(t, "/api/v1/articles", header)
		require.Equal(t, http.StatusOK, recorder.Code, header)
		require.NotNil(t, identity, header)

		request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		request.Header.Set("Authorization", header)
		assert.Equal(t, token, requestutil.BearerToken(request), header)
	}
}

/*
TestAuthenticate_Revoked verifies that revocation is checked before signature
work and yields its own message.
*/
func TestAuthenticate_Revoked(t *testing.T) {
	fixture := newGateFixture(t)

	token, err := fixture.tokens.Issue(42, "alice", sec.RoleUser)
	require.NoError(t, err)
	fixture.revocations.revoked[token] = true

	recorder, _ := fixture.serve(t, "/api/v1/articles", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, decodeEnvelope(t, recorder).Msg, "Session invalidated")
}

/*
TestAuthenticate_RegistryFailure verifies that a broken revocation backend is
a 500, never a silent pass.
*/
func TestAuthenticate_RegistryFailure(t *testing.T) {
	fixture := newGateFixture(t)
	fixture.revocations.err = errors.New("redis gone")

	token, err := fixture.tokens.Issue(42, "alice", sec.RoleUser)
	require.NoError(t, err)

	recorder, identity := fixture.serve(t, "/api/v1/articles", "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Nil(t, identity)
}

/*
TestAuthenticate_ExpiredVsInvalid verifies the two token failures carry
distinct client messages.
*/
func TestAuthenticate_ExpiredVsInvalid(t *testing.T) {
	fixture := newGateFixture(t)

	// 1. Expired token
	past := time.Now().Add(-2 * time.Hour)
	fixture.tokens.WithClock(func() time.Time { return past })
	expired, err := fixture.tokens.Issue(42, "alice", sec.RoleUser)
	require.NoError(t, err)
	fixture.tokens.WithClock(time.Now)

	recorder, _ := fixture.serve(t, "/api/v1/articles", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, decodeEnvelope(t, recorder).Msg, "expired")

	// 2. Garbage token
	recorder, _ = fixture.serve(t, "/api/v1/articles", "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, decodeEnvelope(t, recorder).Msg, "Invalid token")
}

/*
TestAuthenticate_IncompleteClaims verifies that a correctly-signed token
missing identity claims is rejected before any subject lookup.
*/
func TestAuthenticate_IncompleteClaims(t *testing.T) {
	fixture := newGateFixture(t)

	tests := []struct {
		name   string
		claims sec.AuthClaims
	}{
		{"no_identity_claims", sec.AuthClaims{}},
		{"missing_role", sec.AuthClaims{UserID: 42, Username: "alice"}},
		{"missing_username", sec.AuthClaims{UserID: 42, Role: "user"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.claims.RegisteredClaims = jwt.RegisteredClaims{
				Issuer:    "inkwell-test",
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).
				SignedString([]byte("test-secret"))
			require.NoError(t, err)

			recorder, identity := fixture.serve(t, "/api/v1/articles", "Bearer "+token)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Nil(t, identity)
			assert.Equal(t, "Credential data incomplete", decodeEnvelope(t, recorder).Msg)
		})
	}
}

/*
TestAuthenticate_SubjectLookup verifies account existence and standing checks
against the live store.
*/
func TestAuthenticate_SubjectLookup(t *testing.T) {
	fixture := newGateFixture(t)

	// 1. A valid token for a deleted account is rejected 401
	orphan, err := fixture.tokens.Issue(99, "ghost", sec.RoleUser)
	require.NoError(t, err)
	recorder, _ := fixture.serve(t, "/api/v1/articles", "Bearer "+orphan)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "User does not exist", decodeEnvelope(t, recorder).Msg)

	// 2. Banned accounts are rejected 403 with the restriction code
	fixture.subjects.subjects[7] = &middleware.Subject{ID: 7, Username: "mallory", Role: sec.RoleUser, Status: sec.StatusBanned}
	banned, err := fixture.tokens.Issue(7, "mallory", sec.RoleUser)
	require.NoError(t, err)
	recorder, _ = fixture.serve(t, "/api/v1/articles", "Bearer "+banned)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	body := decodeEnvelope(t, recorder)
	assert.Equal(t, "ACCOUNT_RESTRICTED", body.Code)
	assert.Contains(t, body.Msg, "banned")

	// 3. Inactive accounts get 403 with a different message
	fixture.subjects.subjects[8] = &middleware.Subject{ID: 8, Username: "dormant", Role: sec.RoleUser, Status: sec.StatusInactive}
	inactive, err := fixture.tokens.Issue(8, "dormant", sec.RoleUser)
	require.NoError(t, err)
	recorder, _ = fixture.serve(t, "/api/v1/articles", "Bearer "+inactive)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.NotContains(t, decodeEnvelope(t, recorder).Msg, "banned")
}

/*
TestAuthenticate_IdentityAttachment verifies that a passing request carries a
complete identity, with the store's role outranking the token's.
*/
func TestAuthenticate_IdentityAttachment(t *testing.T) {
	fixture := newGateFixture(t)

	// The stored role wins over a stale role claim in the token
	fixture.subjects.subjects[42].Role = sec.RoleAuthor

	token, err := fixture.tokens.Issue(42, "alice", sec.RoleUser)
	require.NoError(t, err)

	recorder, identity := fixture.serve(t, "/api/v1/articles", "Bearer "+token)
	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, identity)
	assert.Equal(t, int64(42), identity.ID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, sec.RoleAuthor, identity.Role)
	assert.Equal(t, []string{"content:create"}, identity.Permissions)
}

/*
TestAuthenticate_EnrichmentDegradation verifies that a failing permission
resolver degrades to an empty set rather than blocking authentication.
*/
func TestAuthenticate_EnrichmentDegradation(t *testing.T) {
	fixture := newGateFixture(t)
	fixture.permissions.err = errors.New("store down")

	token, err := fixture.tokens.Issue(42, "alice", sec.RoleUser)
	require.NoError(t, err)

	recorder, identity := fixture.serve(t, "/api/v1/articles", "Bearer "+token)
	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, identity)
	assert.NotNil(t, identity.Permissions)
	assert.Empty(t, identity.Permissions)
}
