package shared

import "fmt"

// DomainError represents a business rule violation with a stable code
// that the HTTP layer maps to a status code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDomainError creates a domain error with a formatted message.
func NewDomainError(code, format string, args ...interface{}) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain error codes.
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternal            = "INTERNAL"
)

// Sentinel errors shared across domains.
var (
	ErrNotFound            = &DomainError{Code: ErrCodeNotFound, Message: "resource not found"}
	ErrAlreadyExists       = &DomainError{Code: ErrCodeAlreadyExists, Message: "resource already exists"}
	ErrInvalidInput        = &DomainError{Code: ErrCodeInvalidInput, Message: "invalid input"}
	ErrInvalidState        = &DomainError{Code: ErrCodeInvalidState, Message: "operation not allowed in current state"}
	ErrConcurrencyConflict = &DomainError{Code: ErrCodeConcurrencyConflict, Message: "resource was modified concurrently"}
	ErrForbidden           = &DomainError{Code: ErrCodeForbidden, Message: "operation not permitted"}
)
