// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/ctxutil"
	"github.com/inkwell-cms/api/internal/platform/sec"
	"github.com/inkwell-cms/api/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
// Returns validate.ErrInvalidJSON if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// IDParam retrieves a named URL parameter and parses it as a positive
// integer identifier.
func IDParam(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationError("Identifier must be a positive integer")
	}
	return id, nil
}

// IDQuery retrieves a query-string parameter and parses it as a positive
// integer identifier.
func IDQuery(request *http.Request, name string) (int64, error) {
	raw := request.URL.Query().Get(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationError("Identifier must be a positive integer")
	}
	return id, nil
}

// Identity extracts the authenticated caller from the request context.
// Returns nil if the request is anonymous.
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

// RequiredIdentity ensures the request is authenticated and returns the caller.
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthenticated("Authentication required")
	}
	return identity, nil
}

// BearerToken extracts the raw bearer token from the Authorization header.
// Returns an empty string when absent or not bearer-shaped.
//
// The authentication gate uses the same [ParseBearer] logic; logout revokes
// whatever this returns, so the two must never disagree on which header
// shapes carry a token.
func BearerToken(request *http.Request) string {
	token, _ := ParseBearer(request.Header.Get("Authorization"))
	return token
}

// ParseBearer splits an Authorization header value into its bearer token.
// The scheme comparison is case-insensitive and the token is trimmed of
// surrounding whitespace. ok reports whether the header was bearer-shaped
// at all; a bearer-shaped header with a blank payload yields ok=true and an
// empty token.
func ParseBearer(header string) (token string, ok bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
