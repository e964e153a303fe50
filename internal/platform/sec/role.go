// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package sec

import "strings"

// # User Roles

// Role represents the authorization level granted to an account.
//
// Roles are a closed set. Every write boundary (registration, role updates)
// must go through [ParseRole] so that raw strings never leak into the domain.
type Role string

const (
	// Unrestricted system access; bypasses granular permission checks
	RoleAdmin Role = "admin"

	// Can publish and manage their own articles
	RoleAuthor Role = "author"

	// Default role for standard registered users
	RoleUser Role = "user"

	// Read-only account, no content capabilities
	RoleVisitor Role = "visitor"
)

// DefaultRole is assigned at registration when no valid role is supplied.
const DefaultRole = RoleUser

// ParseRole normalizes and validates a raw role string.
// The boolean result reports whether the input named a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleAuthor:
		return RoleAuthor, true
	case RoleUser:
		return RoleUser, true
	case RoleVisitor:
		return RoleVisitor, true
	default:
		return "", false
	}
}

// IsAdmin reports whether the role grants unrestricted access.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// String returns the lowercase wire representation of the role.
func (r Role) String() string { return string(r) }

// # Account Status

// Status represents the lifecycle state of an account.
type Status string

const (
	// StatusActive accounts may authenticate normally.
	StatusActive Status = "active"

	// StatusInactive accounts exist but may not authenticate until activated.
	StatusInactive Status = "inactive"

	// StatusBanned accounts are locked out by an administrator.
	StatusBanned Status = "banned"
)

// ParseStatus normalizes and validates a raw status string.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	case StatusBanned:
		return StatusBanned, true
	default:
		return "", false
	}
}

// String returns the lowercase wire representation of the status.
func (s Status) String() string { return string(s) }
