// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package convert provides fault-tolerant string conversions.

It wraps [strconv] so that query-parameter parsing can fall back to a sane
default instead of branching on errors at every call site. Do not use it
where malformed input must be distinguished from a zero value.
*/
package convert

import "strconv"

// ToInt converts a string to an integer, silencing parsing errors.
// It returns 0 if the string is empty or cannot be parsed.
func ToInt(s string) int {
	if s == "" {
		return 0
	}

	v, _ := strconv.Atoi(s)
	return v
}

// ToIntD converts a string to an int, returning the provided default if the
// string is empty or cannot be parsed.
func ToIntD(str string, def int) int {
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}

// ToBool parses a boolean string ("true", "1", "false", "0").
// It returns false on empty string or parse error.
func ToBool(s string) bool {
	if s == "" {
		return false
	}

	v, _ := strconv.ParseBool(s)
	return v
}
