// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/ctxutil"
	"github.com/inkwell-cms/api/internal/platform/middleware"
	"github.com/inkwell-cms/api/internal/platform/sec"
	"github.com/inkwell-cms/api/pkg/pointer"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting and inspecting access tokens.
type TokenIssuer interface {
	// Issue creates a signed JWT string for the given user identity.
	Issue(userID int64, username string, role sec.Role) (string, error)

	// Decode extracts claims without verifying the signature. Diagnostic
	// use only (e.g. reading the expiry off a token being revoked).
	Decode(tokenString string) (*sec.AuthClaims, error)

	// TTL reports the configured access token lifetime.
	TTL() time.Duration
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
	revocations    RevocationRegistry
	permissions    middleware.PermissionSource
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenIssuer TokenIssuer, revocations RevocationRegistry, permissions middleware.PermissionSource) *Service {
	return &Service{
		userRepository: userRepo,
		tokenIssuer:    tokenIssuer,
		revocations:    revocations,
		permissions:    permissions,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // Optional; unknown or absent values fall back to the default role.
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member. Accounts start active with the
default role unless a recognized role is supplied, and the response carries a
freshly minted token so the client is logged in immediately.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *LoginSession: Created entity plus its first access token
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*LoginSession, error) {

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Unknown role strings degrade to the default member role.
	role, ok := sec.ParseRole(input.Role)
	if !ok {
		role = sec.DefaultRole
	}

	// Construct the new User entity. Accounts are active immediately.
	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		Status:       sec.StatusActive,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	// Log the new member in right away. A fresh account holds no grants, so
	// no permission lookup is needed.
	token, err := service.tokenIssuer.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginSession{
		Token:       token,
		ExpiresIn:   int64(service.tokenIssuer.TTL() / time.Second),
		User:        user,
		Permissions: []string{},
	}, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	UsernameOrEmail string
	Password        string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Token       string
	ExpiresIn   int64 // Seconds until the token expires.
	User        *User
	Permissions []string // Effective permission codes at login time. Never nil.
}

/*
Login validates user credentials and issues an access token.

Description: Verifies identity with constant-time password comparison, then
enforces account status before minting a signed token.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session
  - error: Unauthenticated, AccountRestricted, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Flexible login: the identifier matches either username or email.
	// Generic failure message to prevent account enumeration.
	user, err := service.userRepository.FindByUsernameOrEmail(context, input.UsernameOrEmail)
	if err != nil {
		return nil, apperr.Unauthenticated("Username or password incorrect")
	}

	// Verify password hash using bcrypt's constant-time comparison.
	// Never disclose whether the username or the password was wrong.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthenticated("Username or password incorrect")
	}

	// A correct password does not outrank account standing.
	switch user.Status {
	case sec.StatusActive:
		// proceed
	case sec.StatusBanned:
		return nil, apperr.AccountRestricted("Account has been banned")
	default:
		return nil, apperr.AccountRestricted("Account is not activated, please contact an administrator")
	}

	// Mint the signed access token
	token, err := service.tokenIssuer.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Best-effort login stamp. A failed stamp must not block the login.
	now := time.Now()
	if err := service.userRepository.UpdateLastLogin(context, user.ID, now); err == nil {
		user.LastLoginAt = pointer.To(now)
	}

	// A failed permission lookup must not block an otherwise valid login;
	// the session starts with zero granular permissions.
	permissionCodes, err := service.permissions.ResolveEffective(context, user.ID, user.Role)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context,
			"login_permission_resolution_failed",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err),
		)
		permissionCodes = []string{}
	}

	return &LoginSession{
		Token:       token,
		ExpiresIn:   int64(service.tokenIssuer.TTL() / time.Second),
		User:        user,
		Permissions: permissionCodes,
	}, nil
}

/*
Logout revokes the presented access token.

Description: Places the token on the revocation blacklist so it is rejected
on every subsequent request, regardless of its remaining validity window.
Logging out with an unknown or mangled token still succeeds (idempotent).

Parameters:
  - context: context.Context
  - tokenString: string

Returns:
  - error: Revocation storage failures
*/
func (service *Service) Logout(context context.Context, tokenString string) error {

	// Read the expiry off the token to bound blacklist retention. A token
	// too mangled to decode gets the maximum lifetime as a safe ceiling.
	expiresAt := time.Now().Add(service.tokenIssuer.TTL())
	if claims, err := service.tokenIssuer.Decode(tokenString); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := service.revocations.Revoke(context, tokenString, expiresAt); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Credential Maintenance

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before applying the new hash, then
revokes the presented token so the session must be re-established.

Parameters:
  - context: context.Context
  - userID: int64
  - currentPassword: string
  - newPassword: string
  - currentToken: string

Returns:
  - error: Unauthenticated or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID int64, currentPassword, newPassword, currentToken string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing the change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthenticated("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return err
	}

	// Security Side Effect: revoke the presented token to force a re-login
	_ = service.Logout(context, currentToken)

	return nil
}

// # Gate Integration

/*
FindSubject resolves a token subject against the credential store.

Description: Implements [middleware.SubjectSource]. An absent account is
signalled with a nil Subject and a nil error so the gate can emit its own
rejection; every other failure propagates as-is.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *middleware.Subject: Account snapshot, or nil when the account is gone
  - error: Database retrieval failures
*/
func (service *Service) FindSubject(context context.Context, id int64) (*middleware.Subject, error) {
	user, err := service.userRepository.FindByID(context, id)
	if err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &middleware.Subject{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
		Role:     user.Role,
		Status:   user.Status,
	}, nil
}
