package dto

import (
	"net/http"

	"github.com/setorcuan/backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes come from the shared package.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:          http.StatusBadRequest,
	shared.CodeInsufficientBalance: http.StatusUnprocessableEntity,
	shared.CodeInvalidTransition:   http.StatusConflict,
	shared.CodeMissingProof:        http.StatusUnprocessableEntity,
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeAlreadyExists:       http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodeUnauthorized:        http.StatusUnauthorized,
	shared.CodeForbidden:           http.StatusForbidden,

	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenRevoked:    http.StatusUnauthorized,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
