// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Warehouse and query execution errors.
var (
	// ErrQueryExecution indicates an analytical query could not be executed
	// (connection loss, malformed SQL, constraint violation). Never retried here.
	ErrQueryExecution = errors.New("query execution failed")
)

// Entity resolution errors.
var (
	// ErrChannelNotFound indicates a channel could not be found in the channel dimension.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrNoChannelData indicates no channel posted within the requested window.
	ErrNoChannelData = errors.New("no channel data found")
)

// Validation errors.
var (
	// ErrUnknownMetric indicates a trend metric name outside the supported set.
	ErrUnknownMetric = errors.New("unknown trend metric")

	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
