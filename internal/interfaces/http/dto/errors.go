package dto

import (
	"net/http"

	"github.com/bookstore/backend/internal/domain/shared"
)

// Error codes returned by the API. Domain codes pass through unchanged; the
// rest originate in the HTTP layer.
const (
	ErrCodeValidation          = shared.CodeValidation
	ErrCodeNotFound            = shared.CodeNotFound
	ErrCodeAlreadyExists       = shared.CodeAlreadyExists
	ErrCodeInsufficientStock   = shared.CodeInsufficientStock
	ErrCodeInvalidState        = shared.CodeInvalidState
	ErrCodeConcurrencyConflict = shared.CodeConcurrencyConflict
	ErrCodeUnauthorized        = shared.CodeUnauthorized
	ErrCodeForbidden           = shared.CodeForbidden

	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

var errorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeTokenExpired:        http.StatusUnauthorized,
	ErrCodeInvalidToken:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeRequestTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
