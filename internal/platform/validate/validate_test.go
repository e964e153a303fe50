// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Inkwell", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Username checks the username format rule.
*/
func TestValidator_Username(t *testing.T) {
	tests := []struct {
		name     string
		username string
		isValid  bool
	}{
		{"valid_simple", "alice", true},
		{"valid_with_underscore", "alice_99", true},
		{"too_short", "al", false},
		{"too_long", "abcdefghijklmnopqrstu", false},
		{"illegal_characters", "alice!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Username("username", tt.username)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Password checks the length and composition rules.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name     string
		password string
		isValid  bool
	}{
		{"valid_mixed", "passw0rd", true},
		{"minimum_length", "abc123", true},
		{"too_short", "a1", false},
		{"too_long", "a1a1a1a1a1a1a1a1a1a1a", false},
		{"letters_only", "password", false},
		{"digits_only", "12345678", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Password("password", tt.password)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_PermissionCode checks the resource:action convention rule.
*/
func TestValidator_PermissionCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		isValid bool
	}{
		{"valid_code", "user:list", true},
		{"missing_separator", "userlist", false},
		{"empty_resource", ":list", false},
		{"empty_action", "user:", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.PermissionCode("code", tt.code)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_PositiveID checks the numeric identifier rule.
*/
func TestValidator_PositiveID(t *testing.T) {
	v := &validate.Validator{}
	v.PositiveID("user_id", 42)
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.PositiveID("user_id", 0).PositiveID("other_id", -7)
	assert.True(t, v.HasErrors())

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 2)
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("username", "alice").
		Username("username", "alice").
		Email("email", "alice@inkwell.app").
		Password("password", "passw0rd").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").       // Fails
		MinLen("username", "a", 5).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
