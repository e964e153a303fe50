// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package account handles administrative management of user accounts.

It provides the operator-facing surface for browsing the member roster and
changing a member's role, status, or existence. Self-service credential flows
(registration, login, password change) live in the auth package.

# Architecture

  - Entities: This package depends on the auth package for the User entity.
  - Security: Every route requires the admin role; deletion additionally
    requires an explicit permission grant.
*/
package account

import (
	"context"

	"github.com/inkwell-cms/api/internal/platform/sec"
	"github.com/inkwell-cms/api/internal/users/auth"
	"github.com/inkwell-cms/api/pkg/pagination"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for account administration.
type AccountRepository interface {

	/*
		List returns one page of the member roster plus the total count.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []*auth.User: Page of accounts, newest first
		  - int: Total account count
		  - error: Database retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]*auth.User, int, error)

	/*
		FindByID retrieves a user record by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*auth.User, error)

	/*
		UpdateRole replaces the account's role.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - role: sec.Role

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdateRole(context context.Context, id int64, role sec.Role) error

	/*
		UpdateStatus replaces the account's status.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - status: sec.Status

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdateStatus(context context.Context, id int64, status sec.Status) error

	/*
		Delete removes the account row. Grant edges cascade with it.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id int64) error
}

// # Field Identifiers

// Global field names for validation in the account domain.
const (
	FieldRole   = "role"
	FieldStatus = "status"
)
