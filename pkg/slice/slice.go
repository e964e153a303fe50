// Copyright (c) 2026 Inkwell CMS. All rights reserved.

// Package slice complements the standard [slices] package with generic
// functional helpers.
package slice

// Map transforms a slice of type T into a slice of type U using the provided
// transformation function. A nil input yields a nil output.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter returns only the elements for which the predicate evaluates to true.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	// Not pre-allocating to full length to avoid excessive memory on heavy filters
	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}
