// Copyright (c) 2026 Inkwell CMS. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer and the authentication middleware.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failure modes. Callers differentiate these so that
// clients get distinct "log in again" messages for expiry vs. forgery.
var (
	// ErrTokenExpired marks a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalid marks a malformed token or a signature mismatch.
	ErrTokenInvalid = errors.New("sec: token invalid")
)

// AuthClaims represents the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the user's ID, username, and role directly inside the JWT,
// the authentication gate can reconstruct most of the caller's identity
// without a database round trip; the gate still confirms the subject row
// exists and is active before trusting the request.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Complete reports whether the claims carry every identity fact the
// authentication gate requires.
func (c *AuthClaims) Complete() bool {
	return c != nil && c.UserID > 0 && c.Username != "" && c.Role != ""
}

// TokenService handles generation and verification of JWT tokens using HS256.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with the given shared secret.
//
// # Parameters
//   - secret: The HMAC signing secret (externally supplied, never hardcoded).
//   - issuer: The standard 'iss' claim value.
//   - ttl: Token lifetime applied by [TokenService.Issue].
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: token secret must not be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock overrides the time source. Intended for tests that need to
// issue already-expired tokens.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	service.now = now
	return service
}

// TTL returns the configured token lifetime.
func (service *TokenService) TTL() time.Duration { return service.ttl }

// Issue creates a signed JWT carrying the given identity claims.
func (service *TokenService) Issue(userID int64, username string, role Role) (string, error) {
	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID:   userID,
		Username: username,
		Role:     role.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity window of a JWT string.
//
// # Failure Modes
//   - [ErrTokenExpired] when the token is past its expiry.
//   - [ErrTokenInvalid] when the token is malformed or the signature fails.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithTimeFunc(service.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// Decode extracts claims WITHOUT verifying the signature.
//
// # Security
//
// Only for diagnostic logging and best-effort expiry hints (e.g. sizing a
// revocation entry at logout). Never use the result for a trust decision.
func (service *TokenService) Decode(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return claims, nil
}
