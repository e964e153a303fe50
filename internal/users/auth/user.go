// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package auth implements the user identity and session layer.

It defines the core domain entity (User) and the logic for credential
verification, token issuance, and token revocation.

# Architecture

This layer is the "Truth" of the system. Business rules related to user
identity live here; storage and token mechanics are injected via interfaces.
*/
package auth

import (
	"time"

	"github.com/inkwell-cms/api/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the platform.
type User struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"` // Explicitly omitted from JSON for security.
	Role          sec.Role   `json:"role"`
	Status        sec.Status `json:"status"`
	Avatar        string     `json:"avatar,omitempty"`
	Website       string     `json:"website,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the
// authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldUsernameOrEmail = "usernameOrEmail"
	FieldRole            = "role"
	FieldToken           = "token"
	FieldExpiresIn       = "expires_in"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldUser            = "user"
	FieldPermissions     = "permissions"
)
