// Copyright (c) 2026 Inkwell CMS. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/inkwell-cms/api/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the
// error type.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Row-absence mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Unique-constraint violations surface as identity conflicts
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict(resource + " already exists")
	}

	// 3. Unknown query errors become internal server errors
	return apperr.Internal(err)
}
