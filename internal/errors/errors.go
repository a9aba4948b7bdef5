package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound       = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists  = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation     = new(ErrCodeValidation, "validation error")
	ErrConfiguration  = new(ErrCodeConfiguration, "configuration error")
	ErrAuthentication = new(ErrCodeAuthentication, "authentication error")
	ErrHTTPClient     = new(ErrCodeHTTPClient, "http client error")
	ErrIntegration    = new(ErrCodeIntegration, "integration error")
	ErrSystem         = new(ErrCodeSystemError, "system error")
)

const (
	ErrCodeNotFound       = "not_found"
	ErrCodeAlreadyExists  = "already_exists"
	ErrCodeValidation     = "validation_error"
	ErrCodeConfiguration  = "configuration_error"
	ErrCodeAuthentication = "authentication_error"
	ErrCodeHTTPClient     = "http_client_error"
	ErrCodeIntegration    = "integration_error"
	ErrCodeSystemError    = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// new creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsAuthentication checks if an error is an authentication error
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}
