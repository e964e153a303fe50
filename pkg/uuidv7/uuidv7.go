// Copyright (c) 2026 Inkwell CMS. All rights reserved.

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// Request correlation IDs use v7 so that sorting IDs lexicographically also
// sorts them by creation time, which makes log archaeology much easier.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics only if the OS random source is unavailable; entropy failure is
// an unrecoverable system-level error.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	return id.String()
}
