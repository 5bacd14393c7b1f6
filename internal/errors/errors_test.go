package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns formatted string", func(t *testing.T) {
		err := New(ErrCodeNotFound, "Guest user not found")
		assert.Equal(t, "NOT_FOUND: Guest user not found", err.Error())
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := Wrap(ErrCodeDatabase, "Database error", cause)
		assert.Contains(t, err.Error(), "DATABASE_ERROR")
		assert.Contains(t, err.Error(), "Database error")
		assert.Contains(t, err.Error(), "database connection failed")
	})

	t.Run("WithCause adds cause to error", func(t *testing.T) {
		cause := errors.New("original error")
		err := New(ErrCodeInternal, "Something went wrong").WithCause(cause)
		assert.Equal(t, cause, err.Unwrap())
		assert.Equal(t, cause, err.Cause())
	})

	t.Run("Validation carries field errors", func(t *testing.T) {
		fields := []FieldError{{Field: "email", Message: "Valid email is required"}}
		err := Validation(fields)
		assert.Equal(t, ErrCodeValidation, err.Code)
		assert.Equal(t, fields, err.Details)
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		constructor  func() *AppError
		expectedCode ErrorCode
	}{
		{"InvalidCredentials", func() *AppError { return InvalidCredentials() }, ErrCodeInvalidCredentials},
		{"Unauthorized", func() *AppError { return Unauthorized("test") }, ErrCodeUnauthorized},
		{"InvalidToken", func() *AppError { return InvalidToken("test") }, ErrCodeInvalidToken},
		{"NotFound", func() *AppError { return NotFound("Guest user") }, ErrCodeNotFound},
		{"DuplicateUsername", func() *AppError { return DuplicateUsername() }, ErrCodeDuplicateUsername},
		{"DuplicateEmail", func() *AppError { return DuplicateEmail() }, ErrCodeDuplicateEmail},
		{"ValidationError", func() *AppError { return ValidationError("test") }, ErrCodeValidation},
		{"RateLimitExceeded", func() *AppError { return RateLimitExceeded() }, ErrCodeRateLimitExceeded},
		{"Internal", func() *AppError { return Internal("test") }, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constructor()
			assert.Equal(t, tt.expectedCode, err.Code)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestDatabase(t *testing.T) {
	cause := errors.New("connection refused")
	err := Database(cause)
	assert.Equal(t, ErrCodeDatabase, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestHelpers(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NotFound("Guest user"))

	assert.True(t, IsAppError(wrapped))
	assert.False(t, IsAppError(errors.New("plain")))

	assert.Equal(t, ErrCodeNotFound, GetCode(wrapped))
	assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))

	assert.True(t, Is(wrapped, ErrCodeNotFound))
	assert.False(t, Is(wrapped, ErrCodeDuplicateEmail))
	assert.False(t, Is(nil, ErrCodeNotFound))

	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Guest user not found", appErr.Message)
}
