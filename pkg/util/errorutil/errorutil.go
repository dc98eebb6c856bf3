package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes rendered in the API error envelope.
const (
	CodeValidation            = "VALIDATION_FAILED"
	CodeNotFound              = "NOT_FOUND"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeConflict              = "CONFLICT"
	CodeSerialization         = "SERIALIZATION_FAILED"
	CodeDependencyUnavailable = "DEPENDENCY_UNAVAILABLE"
	CodeInternal              = "INTERNAL_ERROR"
)

// DomainError carries the code, message and HTTP status a failure is
// reported with; Err keeps the underlying cause for logs.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports bad input; details map field names to the rule
// they broke.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewNotFound reports a missing resource as "<resource> not found".
func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError(CodeNotFound, resource+" not found", http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewSerializationError reports that an export document could not be packaged.
func NewSerializationError(err error) error {
	return wrapped(CodeSerialization, "document serialization failed", http.StatusInternalServerError, err)
}

// NewDependencyUnavailable reports failing backing services, keyed by name.
func NewDependencyUnavailable(details map[string]any) error {
	return NewDomainError(CodeDependencyUnavailable, "one or more dependencies unavailable", http.StatusServiceUnavailable, details)
}

func NewInternalError(err error) error {
	return wrapped(CodeInternal, "internal server error", http.StatusInternalServerError, err)
}

func wrapped(code, message string, status int, err error) *DomainError {
	de := NewDomainError(code, message, status, nil)
	de.Err = err
	return de
}

// IsNotFound reports whether err is, or maps to, a NOT_FOUND domain error.
func IsNotFound(err error) bool {
	return err != nil && ToDomainError(err).Code == CodeNotFound
}

// ToDomainError unwraps a DomainError from err. pgx.ErrNoRows becomes
// NOT_FOUND and anything else INTERNAL_ERROR.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, map[string]any{})
	}
	return wrapped(CodeInternal, "internal server error", http.StatusInternalServerError, err)
}
