// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package account

import (
	"context"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/sec"
	"github.com/inkwell-cms/api/internal/users/auth"
	"github.com/inkwell-cms/api/pkg/pagination"
)

// # Service

// Service implements account administration use cases.
type Service struct {
	accounts AccountRepository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accounts AccountRepository) *Service {
	return &Service{accounts: accounts}
}

/*
List returns one page of the member roster.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*auth.User: Page of accounts
  - pagination.Meta: Page/limit/total metadata
  - error: Database retrieval failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*auth.User, pagination.Meta, error) {
	users, total, err := service.accounts.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
UpdateRole changes a member's role.

Description: The caller cannot change their own role, which rules out both
self-escalation and locking the last admin out.

Parameters:
  - context: context.Context
  - actorID: int64 (the admin performing the change)
  - userID: int64
  - role: string (raw role name, validated here)

Returns:
  - *auth.User: Updated account
  - error: ValidationError, NotFound, or storage failures
*/
func (service *Service) UpdateRole(context context.Context, actorID, userID int64, role string) (*auth.User, error) {
	parsedRole, ok := sec.ParseRole(role)
	if !ok {
		return nil, apperr.ValidationError("Unknown role: " + role)
	}

	if actorID == userID {
		return nil, apperr.ValidationError("You cannot change your own role")
	}

	if err := service.accounts.UpdateRole(context, userID, parsedRole); err != nil {
		return nil, err
	}

	return service.accounts.FindByID(context, userID)
}

/*
UpdateStatus changes a member's account standing.

Description: Banning or deactivating takes effect on the member's next
request, when the authentication gate re-reads the stored status.

Parameters:
  - context: context.Context
  - actorID: int64 (the admin performing the change)
  - userID: int64
  - status: string (raw status name, validated here)

Returns:
  - *auth.User: Updated account
  - error: ValidationError, NotFound, or storage failures
*/
func (service *Service) UpdateStatus(context context.Context, actorID, userID int64, status string) (*auth.User, error) {
	parsedStatus, ok := sec.ParseStatus(status)
	if !ok {
		return nil, apperr.ValidationError("Unknown status: " + status)
	}

	if actorID == userID {
		return nil, apperr.ValidationError("You cannot change your own status")
	}

	if err := service.accounts.UpdateStatus(context, userID, parsedStatus); err != nil {
		return nil, err
	}

	return service.accounts.FindByID(context, userID)
}

/*
Delete removes a member's account.

Description: Outstanding tokens for the deleted account die on their next
request at the subject-lookup stage of the authentication gate.

Parameters:
  - context: context.Context
  - actorID: int64 (the admin performing the deletion)
  - userID: int64

Returns:
  - error: ValidationError, NotFound, or storage failures
*/
func (service *Service) Delete(context context.Context, actorID, userID int64) error {
	if actorID == userID {
		return apperr.ValidationError("You cannot delete your own account")
	}
	return service.accounts.Delete(context, userID)
}
