// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/database/schema"
	"github.com/inkwell-cms/api/internal/platform/dberr"
	"github.com/inkwell-cms/api/internal/platform/sec"
	"github.com/inkwell-cms/api/internal/users/auth"
	"github.com/inkwell-cms/api/pkg/pagination"
)

// # Account Repository

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
List returns one page of the member roster plus the total count.

Description: Orders newest-first so recently registered accounts surface at
the top of admin views.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*auth.User: Page of accounts
  - int: Total account count
  - error: Database retrieval failures
*/
func (repository *PostgresAccountRepository) List(context context.Context, params pagination.Params) ([]*auth.User, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.UserAccount.Table)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2`,
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Table,
		schema.UserAccount.CreatedAt, schema.UserAccount.ID)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		user := &auth.User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.Status,
			&user.Avatar,
			&user.Website,
			&user.EmailVerified,
			&user.LastLoginAt,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	return users, total, nil
}

/*
FindByID retrieves a user record by its primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id int64) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Table, schema.UserAccount.ID)

	user := &auth.User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.Avatar,
		&user.Website,
		&user.EmailVerified,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
UpdateRole replaces the account's role.

Parameters:
  - context: context.Context
  - id: int64
  - role: sec.Role

Returns:
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresAccountRepository) UpdateRole(context context.Context, id int64, role sec.Role) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		schema.UserAccount.Table, schema.UserAccount.Role,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID)
	return repository.execOne(context, query, "postgres_account_repo_update_role_failed", role, time.Now(), id)
}

/*
UpdateStatus replaces the account's status.

Parameters:
  - context: context.Context
  - id: int64
  - status: sec.Status

Returns:
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresAccountRepository) UpdateStatus(context context.Context, id int64, status sec.Status) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		schema.UserAccount.Table, schema.UserAccount.Status,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID)
	return repository.execOne(context, query, "postgres_account_repo_update_status_failed", status, time.Now(), id)
}

/*
Delete removes the account row.

Description: Grant edges reference the account with ON DELETE CASCADE, so a
deleted account loses its permissions atomically.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresAccountRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// execOne runs a single-row mutation and maps a zero row count to NotFound.
func (repository *PostgresAccountRepository) execOne(context context.Context, query, wrap string, args ...any) error {
	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", wrap, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
