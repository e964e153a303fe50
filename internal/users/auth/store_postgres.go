// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/database/schema"
	"github.com/inkwell-cms/api/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// # err Mapping
//
// Storage-specific errors (pgx.ErrNoRows, unique violations) are translated
// through [dberr.Wrap] into domain-friendly [apperr.AppError] values so
// callers never see driver internals.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the canonical select list shared by every lookup.
var userColumns = strings.Join(schema.UserAccount.Columns(), ", ")

/*
Create persists a new user record into the users.account table.

Description: Initializes timestamps and reads back the generated ID so the
entity is fully hydrated on return.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate username/email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.Password,
		schema.UserAccount.Role, schema.UserAccount.Status, schema.UserAccount.Avatar,
		schema.UserAccount.Website, schema.UserAccount.EmailVerified,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.Avatar,
		user.Website,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
FindByID retrieves a user record by its primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.ID)
	return repository.scanOne(context, query, id)
}

/*
FindByUsername retrieves a user record by its unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.Username)
	return repository.scanOne(context, query, username)
}

/*
FindByEmail retrieves a user record by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.Email)
	return repository.scanOne(context, query, email)
}

/*
FindByUsernameOrEmail retrieves a user record matching the login identifier
against either the username or the email column.

Parameters:
  - context: context.Context
  - login: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsernameOrEmail(context context.Context, login string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 OR %s = $1`,
		userColumns, schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email)
	return repository.scanOne(context, query, login)
}

/*
UpdatePassword replaces only the user's password hash.

Parameters:
  - context: context.Context
  - userID: int64
  - newHash: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID int64, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		schema.UserAccount.Table,
		schema.UserAccount.Password, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, newHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
UpdateLastLogin stamps the most recent successful login.

Parameters:
  - context: context.Context
  - userID: int64
  - loginAt: time.Time

Returns:
  - error: Persistence failures
*/
func (repository *PostgresUserRepository) UpdateLastLogin(context context.Context, userID int64, loginAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID)

	if _, err := repository.pool.Exec(context, query, loginAt, userID); err != nil {
		return fmt.Errorf("postgres_user_repo_update_last_login_failed: %w", err)
	}

	return nil
}

// scanOne executes a single-row lookup and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
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
