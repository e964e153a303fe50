// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package permission

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-cms/api/internal/platform/database/schema"
	"github.com/inkwell-cms/api/internal/platform/dberr"
)

// # Permission Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
ListDefinitions returns the full permission dictionary, ordered by code.

Parameters:
  - context: context.Context

Returns:
  - []Definition: Dictionary entries
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListDefinitions(context context.Context) ([]Definition, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s`,
		schema.UserPermission.Code, schema.UserPermission.Name,
		schema.UserPermission.Table, schema.UserPermission.Code)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_permission_repo_list_failed: %w", err)
	}
	defer rows.Close()

	definitions := []Definition{}
	for rows.Next() {
		var definition Definition
		if err := rows.Scan(&definition.Code, &definition.Name); err != nil {
			return nil, fmt.Errorf("postgres_permission_repo_scan_failed: %w", err)
		}
		definitions = append(definitions, definition)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_permission_repo_rows_failed: %w", err)
	}

	return definitions, nil
}

/*
DefinitionExists reports whether the code is part of the dictionary.

Parameters:
  - context: context.Context
  - code: string

Returns:
  - bool: true if the code can be granted
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) DefinitionExists(context context.Context, code string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.UserPermission.Table, schema.UserPermission.Code)

	var exists bool
	if err := repository.pool.QueryRow(context, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_permission_repo_exists_failed: %w", err)
	}

	return exists, nil
}

/*
ListCodesByUser returns the codes directly granted to the user.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - []string: Granted codes, ordered by code
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListCodesByUser(context context.Context, userID int64) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		schema.UserGrant.Code, schema.UserGrant.Table,
		schema.UserGrant.UserID, schema.UserGrant.Code)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_permission_repo_list_codes_failed: %w", err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("postgres_permission_repo_scan_code_failed: %w", err)
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_permission_repo_rows_failed: %w", err)
	}

	return codes, nil
}

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
func (repository *PostgresRepository) GrantExists(context context.Context, userID int64, code string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.UserGrant.Table, schema.UserGrant.UserID, schema.UserGrant.Code)

	var exists bool
	if err := repository.pool.QueryRow(context, query, userID, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_permission_repo_grant_exists_failed: %w", err)
	}

	return exists, nil
}

/*
InsertGrant persists a single (userID, code) edge.

Description: ON CONFLICT DO NOTHING makes concurrent duplicate assignments
collapse into one edge instead of failing.

Parameters:
  - context: context.Context
  - userID: int64
  - code: string

Returns:
  - error: Persistence failures (including foreign key violations)
*/
func (repository *PostgresRepository) InsertGrant(context context.Context, userID int64, code string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.UserGrant.Table, schema.UserGrant.UserID, schema.UserGrant.Code,
		schema.UserGrant.UserID, schema.UserGrant.Code)

	if _, err := repository.pool.Exec(context, query, userID, code); err != nil {
		return dberr.Wrap(err, "Permission grant")
	}

	return nil
}

/*
InsertGrants persists many edges for one user in a high-performance batch.

Description: Uses Postgres batching (pipelining) to reduce round-trips for
multi-code assignments. Existing edges are skipped.

Parameters:
  - context: context.Context
  - userID: int64
  - codes: []string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) InsertGrants(context context.Context, userID int64, codes []string) error {

	// Pre-condition verification
	if len(codes) == 0 {
		return nil
	}

	// Batch queue construction
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.UserGrant.Table, schema.UserGrant.UserID, schema.UserGrant.Code,
		schema.UserGrant.UserID, schema.UserGrant.Code)

	batch := &pgx.Batch{}
	for _, code := range codes {
		batch.Queue(query, userID, code)
	}

	// Send batch and close pipeline
	result := repository.pool.SendBatch(context, batch)
	defer result.Close()

	// Verify all items in the batch succeeded
	for i := 0; i < len(codes); i++ {
		if _, err := result.Exec(); err != nil {
			return fmt.Errorf("postgres_permission_repo_batch_insert_failed at %d: %w", i, err)
		}
	}

	return nil
}

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
func (repository *PostgresRepository) DeleteGrant(context context.Context, userID int64, code string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.UserGrant.Table, schema.UserGrant.UserID, schema.UserGrant.Code)

	tag, err := repository.pool.Exec(context, query, userID, code)
	if err != nil {
		return false, fmt.Errorf("postgres_permission_repo_delete_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
