package shared

import "fmt"

// Error codes shared across bounded contexts
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeInvalidState        = "INVALID_STATE"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
)

// validationCodes lists codes that are specializations of CodeValidation.
var validationCodes = map[string]bool{
	CodeInsufficientStock: true,
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether e matches target. Two domain errors match when their codes
// are equal; any validation specialization also matches ErrValidation.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return t.Code == CodeValidation && validationCodes[e.Code]
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError creates a not-found error naming the missing entity
func NewNotFoundError(entity string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %v not found", entity, id))
}

// Common domain errors
var (
	ErrValidation          = NewDomainError(CodeValidation, "Validation failed")
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInsufficientStock   = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
)
