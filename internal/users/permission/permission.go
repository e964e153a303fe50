// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package permission implements the granular access control layer.

It owns the permission dictionary (the fixed catalog of grantable codes) and
the per-user grant edges, and resolves the effective permission set consumed
by the authorization guards.

# Architecture

Codes follow the "resource:action" convention (e.g. "user:list"). The
dictionary is the single source of truth: a code that is not in the
dictionary can never be granted, and a grant whose code was removed from the
dictionary stops resolving.
*/
package permission

import "strings"

// # Domain Entities

// Definition is one entry of the permission dictionary.
type Definition struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Module returns the resource prefix of the code ("user" for "user:list").
func (definition Definition) Module() string {
	module, _, found := strings.Cut(definition.Code, ":")
	if !found {
		return definition.Code
	}
	return module
}

// Group is a dictionary slice sharing one resource prefix, used by clients
// that render permission pickers per module.
type Group struct {
	Module      string       `json:"module"`
	Permissions []Definition `json:"permissions"`
}

// # Field Identifiers

// Global field names for validation in the permission domain.
const (
	FieldUserID = "user_id"
	FieldCode   = "code"
	FieldCodes  = "codes"
)
