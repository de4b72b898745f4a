// Package apperr defines the error kinds the HTTP surface maps to status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports missing or invalid client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConfigurationError reports a collaborator that cannot be used because its
// configuration is missing.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// StoreError wraps a failure returned by the task store. Its message is the
// store's own, unsanitized.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// Status maps err to the HTTP status the API responds with.
func Status(err error) int {
	var validation *ValidationError
	var notFound *NotFoundError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
