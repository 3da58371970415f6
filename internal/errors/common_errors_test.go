package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "input error type", errType: ErrTypeInput, expected: "INPUT"},
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "computation error type", errType: ErrTypeComputation, expected: "COMPUTATION"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeInput,
				Message: "missing required column \"cost\"",
			},
			wantMessage: "[INPUT] missing required column \"cost\"",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "invalid revenue value",
				Cause:   fmt.Errorf("can't convert abc to decimal"),
			},
			wantMessage: "[PARSING] invalid revenue value: can't convert abc to decimal",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewStorageError("failed to create output directory", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("write step: %w", err)
	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeParsing, Message: "bad row"}
	err.WithContext("line", 4).WithContext("column", "revenue")

	require.NotNil(t, err.Context)
	assert.Equal(t, 4, err.Context["line"])
	assert.Equal(t, "revenue", err.Context["column"])
}

func TestAppError_LogAttrs(t *testing.T) {
	err := NewParsingError("invalid revenue value", nil).
		WithContext("value", "abc").
		WithContext("line", 3)

	attrs := err.LogAttrs()
	require.Len(t, attrs, 3)

	first, ok := attrs[0].(slog.Attr)
	require.True(t, ok)
	assert.Equal(t, "error_type", first.Key)
	assert.Equal(t, "PARSING", first.Value.String())

	second := attrs[1].(slog.Attr)
	third := attrs[2].(slog.Attr)
	assert.Equal(t, "line", second.Key)
	assert.Equal(t, "value", third.Key)
}

func TestHelperConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{name: "config", err: NewConfigError("config file not found", nil), wantType: ErrTypeConfig},
		{name: "input", err: NewInputError("input file not found", nil), wantType: ErrTypeInput},
		{name: "parsing", err: NewParsingError("invalid date", nil), wantType: ErrTypeParsing},
		{name: "validation", err: NewAppValidationError("negative cost"), wantType: ErrTypeValidation},
		{name: "computation", err: NewComputationError("overflow", nil), wantType: ErrTypeComputation},
		{name: "storage", err: NewStorageError("write failed", nil), wantType: ErrTypeStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
			assert.True(t, IsType(tt.err, tt.wantType))
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: ExitOK},
		{name: "plain error", err: errors.New("boom"), want: ExitFailure},
		{name: "config error", err: NewConfigError("bad config", nil), want: ExitConfig},
		{name: "input error", err: NewInputError("no file", nil), want: ExitInput},
		{name: "parsing error", err: NewParsingError("bad value", nil), want: ExitInput},
		{name: "validation error", err: NewAppValidationError("negative"), want: ExitInput},
		{name: "storage error", err: NewStorageError("disk full", nil), want: ExitStorage},
		{name: "computation error", err: NewComputationError("overflow", nil), want: ExitFailure},
		{name: "wrapped storage error", err: fmt.Errorf("commit: %w", NewStorageError("rename", nil)), want: ExitStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
