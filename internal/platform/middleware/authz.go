// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package middleware

import (
	"fmt"
	"net/http"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/ctxutil"
	"github.com/inkwell-cms/api/internal/platform/metrics"
	"github.com/inkwell-cms/api/internal/platform/respond"
)

// # Authorization Guards
//
// All guards must be registered AFTER [Authenticate]: they are pure checks
// against the identity the gate attached and perform no I/O, with the
// exception of [RequirePermissionFresh].

// RequireAuth blocks requests that are not authenticated.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAdmin blocks requests unless the caller holds the admin role.
//
// The current role is disclosed in the rejection message for debuggability;
// roles are not secret.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
			return
		}
		if !identity.Role.IsAdmin() {
			metrics.CountAuthRejection("not_admin")
			respond.Error(writer, request, apperr.Forbidden(
				fmt.Sprintf("Administrators only (current role: %s)", identity.Role)))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission blocks requests unless the caller holds the given
// permission code. Admin accounts always pass, regardless of explicit grants.
func RequirePermission(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
				return
			}
			if !identity.HasPermission(code) {
				metrics.CountAuthRejection("missing_permission")
				respond.Error(writer, request, apperr.Forbidden("Missing permission: "+code))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAnyPermission blocks requests unless the caller holds at least one
// of the given permission codes. Admin accounts always pass.
func RequireAnyPermission(codes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
				return
			}
			if !identity.HasAnyPermission(codes...) {
				metrics.CountAuthRejection("missing_permission")
				respond.Error(writer, request, apperr.Forbidden(
					fmt.Sprintf("Missing permission: %s", firstOf(codes))))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequirePermissionFresh re-queries the permission store instead of trusting
// the permission set resolved at authentication.
//
// # When to use
//
// Opt-in for high-sensitivity routes where a just-revoked grant must take
// effect immediately, at the cost of one extra store query per request.
// Everything else should use [RequirePermission], which checks the
// enrichment-time snapshot.
func RequirePermissionFresh(permissions PermissionSource, code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
				return
			}
			if identity.Role.IsAdmin() {
				next.ServeHTTP(writer, request)
				return
			}

			held, err := permissions.ResolveEffective(request.Context(), identity.ID, identity.Role)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(fmt.Errorf("live permission check: %w", err)))
				return
			}

			for _, heldCode := range held {
				if heldCode == code {
					next.ServeHTTP(writer, request)
					return
				}
			}

			metrics.CountAuthRejection("missing_permission")
			respond.Error(writer, request, apperr.Forbidden("Missing permission: "+code))
		})
	}
}

// firstOf guards the rejection message against an empty code list.
func firstOf(codes []string) string {
	if len(codes) == 0 {
		return "(none)"
	}
	return codes[0]
}
