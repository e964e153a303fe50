// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/ctxutil"
	"github.com/inkwell-cms/api/internal/platform/metrics"
	requestutil "github.com/inkwell-cms/api/internal/platform/request"
	"github.com/inkwell-cms/api/internal/platform/respond"
	"github.com/inkwell-cms/api/internal/platform/sec"
)

// # Gate Contracts

// TokenVerifier checks token signatures and decodes identity claims.
//
// # Why an interface?
//
// Defining the contracts here decouples the gate from the auth service
// implementation, allowing mocks to be injected during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.AuthClaims, error)
}

// RevocationChecker answers whether a token has been invalidated by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenString string) (bool, error)
}

// Subject is the credential-store view of a token's subject.
type Subject struct {
	ID       int64
	Username string
	Email    string
	Avatar   string
	Role     sec.Role
	Status   sec.Status
}

// SubjectSource resolves token subjects against the credential store.
// A nil Subject with a nil error means the subject does not exist.
type SubjectSource interface {
	FindSubject(ctx context.Context, id int64) (*Subject, error)
}

// PermissionSource resolves the effective permission codes for a user.
type PermissionSource interface {
	ResolveEffective(ctx context.Context, userID int64, role sec.Role) ([]string, error)
}

// # Public-Path Allowlist

// Allowlist exempts request paths from the authentication gate entirely.
// Patterns ending in "*" match by prefix; all others match exactly.
type Allowlist struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewAllowlist compiles the pattern list. Blank entries are ignored.
func NewAllowlist(patterns []string) *Allowlist {
	list := &Allowlist{exact: make(map[string]struct{})}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "*") {
			list.prefixes = append(list.prefixes, strings.TrimSuffix(pattern, "*"))
			continue
		}
		list.exact[pattern] = struct{}{}
	}
	return list
}

// Match reports whether the path is exempt from authentication.
func (list *Allowlist) Match(path string) bool {
	if list == nil {
		return false
	}
	if _, ok := list.exact[path]; ok {
		return true
	}
	for _, prefix := range list.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// # Authentication Gate

// Authenticate validates the bearer token end to end and attaches the
// fully-resolved caller identity to the request context.
//
// # Flow
//
// Stages run strictly in order; a failure at any stage is terminal for the
// request (no retries):
//
//  1. Allowlisted paths skip the gate entirely (request stays anonymous).
//  2. Missing or malformed Authorization header rejects with 401.
//  3. Revoked tokens reject with 401 before any signature work.
//  4. Signature/expiry verification rejects with 401, with distinct
//     messages for expired vs. invalid tokens.
//  5. Claims missing id/username/role reject with 401.
//  6. The subject row is confirmed in the credential store: absent rejects
//     with 401, banned/inactive rejects with 403.
//  7. Effective permissions are resolved; a resolver failure degrades to an
//     empty set with a warning rather than blocking authentication.
//  8. The [sec.Identity] is attached complete — permissions included —
//     before the next handler runs. Downstream code never observes a
//     partially-populated identity.
func Authenticate(verifier TokenVerifier, revocations RevocationChecker, subjects SubjectSource, permissions PermissionSource, allowlist *Allowlist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Public-Path Exemption ──────────────────────────────────────
			if allowlist.Match(request.URL.Path) {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Header Extraction ──────────────────────────────────────────
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				metrics.CountAuthRejection("no_token")
				respond.Error(writer, request, apperr.Unauthenticated("You must log in first"))
				return
			}

			tokenString, bearerShaped := requestutil.ParseBearer(authHeader)
			if !bearerShaped {
				metrics.CountAuthRejection("malformed_header")
				respond.Error(writer, request, apperr.Unauthenticated("Invalid authorization format"))
				return
			}

			if tokenString == "" {
				metrics.CountAuthRejection("empty_token")
				respond.Error(writer, request, apperr.Unauthenticated("You must log in first"))
				return
			}

			// ── 3. Revocation Check ───────────────────────────────────────────
			revoked, err := revocations.IsRevoked(request.Context(), tokenString)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(fmt.Errorf("revocation check: %w", err)))
				return
			}
			if revoked {
				metrics.CountAuthRejection("revoked")
				respond.Error(writer, request, apperr.Unauthenticated("Session invalidated, please log in again"))
				return
			}

			// ── 4. Signature & Expiry ─────────────────────────────────────────
			claims, err := verifier.Verify(tokenString)
			if err != nil {
				if errors.Is(err, sec.ErrTokenExpired) {
					metrics.CountAuthRejection("expired")
					respond.Error(writer, request, apperr.Unauthenticated("Login expired, please log in again"))
					return
				}
				metrics.CountAuthRejection("invalid")
				respond.Error(writer, request, apperr.Unauthenticated("Invalid token, please log in again"))
				return
			}

			// ── 5. Claims Completeness ────────────────────────────────────────
			if !claims.Complete() {
				metrics.CountAuthRejection("incomplete_claims")
				respond.Error(writer, request, apperr.Unauthenticated("Credential data incomplete"))
				return
			}

			// ── 6. Subject Lookup ─────────────────────────────────────────────
			subject, err := subjects.FindSubject(request.Context(), claims.UserID)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(fmt.Errorf("subject lookup: %w", err)))
				return
			}
			if subject == nil {
				metrics.CountAuthRejection("unknown_subject")
				respond.Error(writer, request, apperr.Unauthenticated("User does not exist"))
				return
			}

			switch subject.Status {
			case sec.StatusActive:
				// proceed
			case sec.StatusBanned:
				metrics.CountAuthRejection("banned")
				respond.Error(writer, request, apperr.AccountRestricted("Account has been banned"))
				return
			default:
				metrics.CountAuthRejection("inactive")
				respond.Error(writer, request, apperr.AccountRestricted("Account is not activated, please contact an administrator"))
				return
			}

			// ── 7. Permission Enrichment ──────────────────────────────────────
			// A resolver failure must not block an otherwise valid login;
			// the request proceeds with zero granular permissions.
			permissionCodes, err := permissions.ResolveEffective(request.Context(), subject.ID, subject.Role)
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
					"permission_enrichment_failed",
					slog.Int64("user_id", subject.ID),
					slog.Any("error", err),
				)
				permissionCodes = []string{}
			}

			// ── 8. Identity Attachment ────────────────────────────────────────
			identity := &sec.Identity{
				ID:          subject.ID,
				Username:    subject.Username,
				Role:        subject.Role,
				Status:      subject.Status,
				Permissions: permissionCodes,
				Email:       subject.Email,
				Avatar:      subject.Avatar,
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
