// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsernameOrEmail returns the account whose username or email
		matches the login identifier.

		Parameters:
		  - context: context.Context
		  - login: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsernameOrEmail(context context.Context, login string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID int64, newHash string) error

	/*
		UpdateLastLogin stamps the most recent successful login.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - loginAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	UpdateLastLogin(context context.Context, userID int64, loginAt time.Time) error
}
