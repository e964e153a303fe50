// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package pointer reduces boilerplate when working with optional values.

Nullable columns (lastloginat and friends) surface as pointer fields on the
domain entities; these generic helpers keep the conversion between values
and pointers out of the business logic.
*/
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Val safely dereferences a pointer.
// If the pointer is nil, it returns the zero value of the underlying type.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Fallback safely dereferences a pointer.
// If the pointer is nil, it returns the provided fallback value instead.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
