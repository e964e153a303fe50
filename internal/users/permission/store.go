// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package permission

import "context"

// # Permission Data Access

// Repository defines the data access contract for the permission dictionary
// and the per-user grant edges.
type Repository interface {

	/*
		ListDefinitions returns the full permission dictionary, ordered by code.

		Parameters:
		  - context: context.Context

		Returns:
		  - []Definition: Dictionary entries
		  - error: Database retrieval failures
	*/
	ListDefinitions(context context.Context) ([]Definition, error)

	/*
		DefinitionExists reports whether the code is part of the dictionary.

		Parameters:
		  - context: context.Context
		  - code: string

		Returns:
		  - bool: true if the code can be granted
		  - error: Database retrieval failures
	*/
	DefinitionExists(context context.Context, code string) (bool, error)

	/*
		ListCodesByUser returns the codes directly granted to the user.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - []string: Granted codes, ordered by code
		  - error: Database retrieval failures
	*/
	ListCodesByUser(context context.Context, userID int64) ([]string, error)

	/*
		GrantExists reports whether the (userID, code) edge is present.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - code: string

		Returns:
		  - bool: true if the grant exists
		  - error: Database retrieval failures
	*/
	GrantExists(context context.Context, userID int64, code string) (bool, error)

	/*
		InsertGrant persists a single (userID, code) edge. Inserting an edge
		that already exists is a no-op.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - code: string

		Returns:
		  - error: Persistence failures
	*/
	InsertGrant(context context.Context, userID int64, code string) error

	/*
		InsertGrants persists many edges for one user in a single batch.
		Existing edges are skipped, not duplicated.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - codes: []string

		Returns:
		  - error: Persistence failures
	*/
	InsertGrants(context context.Context, userID int64, codes []string) error

	/*
		DeleteGrant removes the (userID, code) edge.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - code: string

		Returns:
		  - bool: true if an edge was actually removed
		  - error: Persistence failures
	*/
	DeleteGrant(context context.Context, userID int64, code string) (bool, error)
}
