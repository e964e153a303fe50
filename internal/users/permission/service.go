// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package permission

import (
	"context"
	"sort"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/sec"
	"github.com/inkwell-cms/api/pkg/slice"
)

// # Service

// Service implements permission dictionary and grant use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// # Effective Permission Resolution

/*
ResolveEffective computes the permission set used for authorization checks.

Description: Implements [middleware.PermissionSource]. Admin accounts resolve
to the entire dictionary; everyone else resolves to their direct grants. The
result is never nil, so downstream checks need no nil-guards.

Parameters:
  - context: context.Context
  - userID: int64
  - role: sec.Role

Returns:
  - []string: Effective permission codes
  - error: Database retrieval failures
*/
func (service *Service) ResolveEffective(context context.Context, userID int64, role sec.Role) ([]string, error) {

	// Admins hold every code the dictionary defines.
	if role.IsAdmin() {
		definitions, err := service.repository.ListDefinitions(context)
		if err != nil {
			return nil, err
		}
		codes := slice.Map(definitions, func(definition Definition) string { return definition.Code })
		if codes == nil {
			codes = []string{}
		}
		return codes, nil
	}

	codes, err := service.repository.ListCodesByUser(context, userID)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

// # Grant Management

/*
Assign grants a permission code to a user.

Description: The code must exist in the dictionary. Re-assigning a code the
user already holds is a successful no-op, not an error.

Parameters:
  - context: context.Context
  - userID: int64
  - code: string

Returns:
  - error: ValidationError for unknown codes, or storage failures
*/
func (service *Service) Assign(context context.Context, userID int64, code string) error {

	// Reject codes outside the dictionary before touching the edge table
	exists, err := service.repository.DefinitionExists(context, code)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.ValidationError("Unknown permission code: " + code)
	}

	// Idempotent: a held code short-circuits to success
	held, err := service.repository.GrantExists(context, userID, code)
	if err != nil {
		return err
	}
	if held {
		return nil
	}

	return service.repository.InsertGrant(context, userID, code)
}

/*
BatchAssign grants several permission codes to a user atomically from the
caller's perspective.

Description: The whole batch is rejected if any code is unknown; no partial
application. Codes the user already holds are skipped.

Parameters:
  - context: context.Context
  - userID: int64
  - codes: []string

Returns:
  - error: ValidationError for unknown codes, or storage failures
*/
func (service *Service) BatchAssign(context context.Context, userID int64, codes []string) error {

	// Validate the full batch before inserting anything
	for _, code := range codes {
		exists, err := service.repository.DefinitionExists(context, code)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.ValidationError("Unknown permission code: " + code)
		}
	}

	return service.repository.InsertGrants(context, userID, codes)
}

/*
Revoke removes a permission code from a user.

Description: Revoking a code the user does not hold is an error, surfacing
grant-bookkeeping bugs instead of hiding them.

Parameters:
  - context: context.Context
  - userID: int64
  - code: string

Returns:
  - error: ValidationError when the grant was absent, or storage failures
*/
func (service *Service) Revoke(context context.Context, userID int64, code string) error {
	removed, err := service.repository.DeleteGrant(context, userID, code)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.ValidationError("Permission not granted: " + code)
	}
	return nil
}

/*
UserPermissions returns the codes directly granted to the user.

Description: Reports explicit grants only; the admin universal grant is a
resolution-time rule, not a stored edge, so it does not appear here.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - []string: Granted codes
  - error: Database retrieval failures
*/
func (service *Service) UserPermissions(context context.Context, userID int64) ([]string, error) {
	codes, err := service.repository.ListCodesByUser(context, userID)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

// # Dictionary Queries

/*
ListAll returns the full permission dictionary.

Parameters:
  - context: context.Context

Returns:
  - []Definition: Dictionary entries ordered by code
  - error: Database retrieval failures
*/
func (service *Service) ListAll(context context.Context) ([]Definition, error) {
	return service.repository.ListDefinitions(context)
}

/*
ListGrouped returns the dictionary grouped by resource prefix.

Description: "user:list" and "user:delete" land in the "user" group. Groups
are ordered alphabetically so clients render deterministically.

Parameters:
  - context: context.Context

Returns:
  - []Group: Module-grouped dictionary
  - error: Database retrieval failures
*/
func (service *Service) ListGrouped(context context.Context) ([]Group, error) {
	definitions, err := service.repository.ListDefinitions(context)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]Definition)
	for _, definition := range definitions {
		module := definition.Module()
		grouped[module] = append(grouped[module], definition)
	}

	modules := make([]string, 0, len(grouped))
	for module := range grouped {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	groups := make([]Group, 0, len(modules))
	for _, module := range modules {
		groups = append(groups, Group{Module: module, Permissions: grouped[module]})
	}

	return groups, nil
}
