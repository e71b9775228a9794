// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/validate"
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
		{"valid_string", "name", "Ada Lovelace", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				require.Len(t, v.Errors(), 1)
				assert.Equal(t, apperr.FieldError{Field: tt.field, Message: "This field is required"}, v.Errors()[0])
			} else {
				assert.False(t, v.HasErrors())
				assert.Empty(t, v.Errors())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	v.
		Required("name", "Ada").
		MaxLen("name", "Ada", 10).
		Email("email", "ada@example.com").
		OneOf("plan", "monthly", "monthly", "yearly")

	assert.False(t, v.HasErrors())
	assert.Empty(t, v.Errors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	v.
		Required("name", "").              // Fails
		MaxLen("name", "Ada Lovelace", 5). // Fails
		Email("email", "not-an-email")     // Fails

	// Should accumulate all 3 errors
	assert.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 3)
}

/*
TestValidator_Errors verifies that field errors keep their insertion order,
which is the order a form renders them in.
*/
func TestValidator_Errors(t *testing.T) {
	v := &validate.Validator{}
	v.Required("name", "").OneOf("plan", "weekly", "monthly", "yearly")

	errs := v.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "plan", errs[1].Field)
	assert.Equal(t, "Must be one of: monthly, yearly", errs[1].Message)
}
