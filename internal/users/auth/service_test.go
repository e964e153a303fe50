// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/sec"
	"github.com/inkwell-cms/api/internal/users/auth"
)

// # Test Doubles

// fakeUserRepository keeps accounts in memory, mapping absence to the same
// NotFound errors the Postgres repository produces.
type fakeUserRepository struct {
	users  map[int64]*auth.User
	nextID int64
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[int64]*auth.User), nextID: 1}
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id int64) (*auth.User, error) {
	if user, ok := repository.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByUsernameOrEmail(_ context.Context, login string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Username == login || user.Email == login {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	user.ID = repository.nextID
	repository.nextID++
	copied := *user
	repository.users[user.ID] = &copied
	return nil
}

func (repository *fakeUserRepository) UpdatePassword(_ context.Context, userID int64, newHash string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repository *fakeUserRepository) UpdateLastLogin(_ context.Context, userID int64, loginAt time.Time) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.LastLoginAt = &loginAt
	return nil
}

// fakePermissionSource returns a fixed code set, or an error to exercise
// the login degradation path.
type fakePermissionSource struct {
	codes map[int64][]string
	err   error
}

func (source *fakePermissionSource) ResolveEffective(_ context.Context, userID int64, _ sec.Role) ([]string, error) {
	if source.err != nil {
		return nil, source.err
	}
	return source.codes[userID], nil
}

// newTestService wires a Service with real token and revocation components.
func newTestService(t *testing.T) (*auth.Service, *fakeUserRepository, *auth.MemoryRevocationRegistry, *fakePermissionSource) {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret", "inkwell-test", time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	repository := newFakeUserRepository()
	revocations := auth.NewMemoryRevocationRegistry(ctx)
	permissions := &fakePermissionSource{codes: map[int64][]string{}}
	return auth.NewService(repository, tokens, revocations, permissions), repository, revocations, permissions
}

// seedUser registers an account directly through the service.
func seedUser(t *testing.T, service *auth.Service, username, email, password string) *auth.User {
	t.Helper()
	session, err := service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return session.User
}

// # Registration

/*
TestService_Register verifies enrollment defaults and conflict handling.
*/
func TestService_Register(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ctx := context.Background()

	// 1. A fresh registration starts active with the default role and is
	// logged in immediately
	session, err := service.Register(ctx, auth.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "passw0rd",
	})
	require.NoError(t, err)
	user := session.User
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.Equal(t, sec.StatusActive, user.Status)
	assert.NotEqual(t, "passw0rd", user.PasswordHash)
	assert.Positive(t, user.ID)
	assert.NotEmpty(t, session.Token)
	assert.Empty(t, session.Permissions)

	// 2. An unrecognized role falls back to the default
	oddballRole, err := service.Register(ctx, auth.RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "passw0rd",
		Role:     "superhero",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, oddballRole.User.Role)

	// 3. Duplicate username conflicts
	_, err = service.Register(ctx, auth.RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "passw0rd",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// 4. Duplicate email conflicts
	_, err = service.Register(ctx, auth.RegisterInput{
		Username: "charlie",
		Email:    "alice@example.com",
		Password: "passw0rd",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

// # Login

/*
TestService_Login_GenericFailure verifies that an unknown account and a wrong
password produce the exact same client-facing error.
*/
func TestService_Login_GenericFailure(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, service, "alice", "alice@example.com", "passw0rd")

	// 1. Unknown identifier
	_, unknownErr := service.Login(ctx, auth.LoginInput{UsernameOrEmail: "mallory", Password: "passw0rd"})
	require.Error(t, unknownErr)

	// 2. Known identifier, wrong password
	_, wrongErr := service.Login(ctx, auth.LoginInput{UsernameOrEmail: "alice", Password: "wrong1"})
	require.Error(t, wrongErr)

	// 3. Indistinguishable to the client
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, http.StatusUnauthorized, apperr.As(wrongErr).HTTPStatus)
}

/*
TestService_Login_AccountStanding verifies that banned and inactive accounts
are rejected with 403 even when the password is correct.
*/
func TestService_Login_AccountStanding(t *testing.T) {
	service, repository, _, _ := newTestService(t)
	ctx := context.Background()

	banned := seedUser(t, service, "banned", "banned@example.com", "passw0rd")
	repository.users[banned.ID].Status = sec.StatusBanned

	inactive := seedUser(t, service, "inactive", "inactive@example.com", "passw0rd")
	repository.users[inactive.ID].Status = sec.StatusInactive

	// 1. Banned account
	_, err := service.Login(ctx, auth.LoginInput{UsernameOrEmail: "banned", Password: "passw0rd"})
	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_RESTRICTED", apperr.As(err).Code)
	assert.Contains(t, err.Error(), "banned")

	// 2. Inactive account gets a different message but the same status
	_, err = service.Login(ctx, auth.LoginInput{UsernameOrEmail: "inactive", Password: "passw0rd"})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)
	assert.NotContains(t, err.Error(), "banned")
}

/*
TestService_Login_Success verifies the issued token and session metadata,
including login by email.
*/
func TestService_Login_Success(t *testing.T) {
	service, _, _, permissions := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, service, "alice", "alice@example.com", "passw0rd")
	permissions.codes[user.ID] = []string{"content:create"}

	// 1. Login by username
	session, err := service.Login(ctx, auth.LoginInput{UsernameOrEmail: "alice", Password: "passw0rd"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, int64(3600), session.ExpiresIn)
	assert.NotNil(t, session.User.LastLoginAt)
	assert.Equal(t, []string{"content:create"}, session.Permissions)

	// 2. The token verifies and carries the identity claims
	tokens, err := sec.NewTokenService("test-secret", "inkwell-test", time.Hour)
	require.NoError(t, err)
	claims, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)

	// 3. Login by email reaches the same account
	byEmail, err := service.Login(ctx, auth.LoginInput{UsernameOrEmail: "alice@example.com", Password: "passw0rd"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, byEmail.User.ID)
}

/*
TestService_Login_PermissionDegradation verifies that a broken permission
source does not block the login, only empties the session's code set.
*/
func TestService_Login_PermissionDegradation(t *testing.T) {
	service, _, _, permissions := newTestService(t)
	ctx := context.Background()
	seedUser(t, service, "alice", "alice@example.com", "passw0rd")
	permissions.err = errors.New("store down")

	session, err := service.Login(ctx, auth.LoginInput{UsernameOrEmail: "alice", Password: "passw0rd"})
	require.NoError(t, err)
	assert.NotNil(t, session.Permissions)
	assert.Empty(t, session.Permissions)
}

// # Logout

/*
TestService_Logout verifies that a revoked token lands on the blacklist and
that repeating the logout stays successful.
*/
func TestService_Logout(t *testing.T) {
	service, _, revocations, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, service, "alice", "alice@example.com", "passw0rd")

	session, err := service.Login(ctx, auth.LoginInput{UsernameOrEmail: "alice", Password: "passw0rd"})
	require.NoError(t, err)

	// 1. Not revoked before logout
	revoked, err := revocations.IsRevoked(ctx, session.Token)
	require.NoError(t, err)
	assert.False(t, revoked)

	// 2. Logout blacklists the token
	require.NoError(t, service.Logout(ctx, session.Token))
	revoked, err = revocations.IsRevoked(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// 3. Logging out again is not an error
	require.NoError(t, service.Logout(ctx, session.Token))

	// 4. Even a mangled token is accepted silently
	require.NoError(t, service.Logout(ctx, "not-a-jwt"))
}

// # Password Change

/*
TestService_ChangePassword verifies current-password gating and the forced
re-login side effect.
*/
func TestService_ChangePassword(t *testing.T) {
	service, _, revocations, _ := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, service, "alice", "alice@example.com", "passw0rd")

	session, err := service.Login(ctx, auth.LoginInput{UsernameOrEmail: "alice", Password: "passw0rd"})
	require.NoError(t, err)

	// 1. Wrong current password is rejected
	err = service.ChangePassword(ctx, user.ID, "wrong1", "newpass1", session.Token)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHENTICATED", apperr.As(err).Code)

	// 2. Correct current password rotates the hash
	require.NoError(t, service.ChangePassword(ctx, user.ID, "passw0rd", "newpass1", session.Token))

	// 3. The presented token is revoked as a side effect
	revoked, err := revocations.IsRevoked(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// 4. Old password no longer works, new one does
	_, err = service.Login(ctx, auth.LoginInput{UsernameOrEmail: "alice", Password: "passw0rd"})
	require.Error(t, err)
	_, err = service.Login(ctx, auth.LoginInput{UsernameOrEmail: "alice", Password: "newpass1"})
	require.NoError(t, err)
}

// # Gate Integration

/*
TestService_FindSubject verifies the SubjectSource contract, in particular
the nil/nil signalling for deleted accounts.
*/
func TestService_FindSubject(t *testing.T) {
	service, repository, _, _ := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, service, "alice", "alice@example.com", "passw0rd")

	// 1. Known subject comes back fully populated
	subject, err := service.FindSubject(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, subject)
	assert.Equal(t, user.ID, subject.ID)
	assert.Equal(t, "alice", subject.Username)
	assert.Equal(t, sec.StatusActive, subject.Status)

	// 2. A deleted account yields nil subject and nil error
	delete(repository.users, user.ID)
	subject, err = service.FindSubject(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, subject)
}
