// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNoTrades          = errors.New("no trades to analyze")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDataNotFound      = errors.New("data not found")
	ErrDatabaseError     = errors.New("database error")
	ErrCoachUnavailable  = errors.New("coach backend unavailable")
)

// ParseError represents an error while parsing an imported trade file.
// Row is 1-based and refers to the data row, not the header.
type ParseError struct {
	Row     int
	Field   string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error row %d [%s]: %s: %v", e.Row, e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("parse error row %d [%s]: %s", e.Row, e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(row int, field, message string, err error) *ParseError {
	return &ParseError{
		Row:     row,
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// CoachError represents a failure in the coaching enrichment step. The
// deterministic engine output is unaffected by it; callers fall back to the
// template coach.
type CoachError struct {
	Operation string
	Err       error
}

func (e *CoachError) Error() string {
	return fmt.Sprintf("coach error [%s]: %v", e.Operation, e.Err)
}

func (e *CoachError) Unwrap() error {
	return e.Err
}

// NewCoachError creates a new CoachError.
func NewCoachError(operation string, err error) *CoachError {
	return &CoachError{
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
