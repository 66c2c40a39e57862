package shared

import (
	"errors"
	"fmt"
)

// Error codes shared by every bounded context.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeMissingProof        = "MISSING_PROOF"
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so errors.Is matches
// any DomainError of a kind regardless of message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports bad input shape or range
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewInsufficientBalanceError reports a mutation that would drive a balance negative
func NewInsufficientBalanceError(balance, requested int64) *DomainError {
	return NewDomainError(CodeInsufficientBalance,
		fmt.Sprintf("insufficient balance: have %d, need %d", balance, requested))
}

// NewInvalidTransitionError reports a status change from a non-source state
func NewInvalidTransitionError(from, to string) *DomainError {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("cannot transition from %s to %s", from, to))
}

// NewNotFoundError reports an unknown entity reference
func NewNotFoundError(entity, id string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %s not found", entity, id))
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInsufficientBalance = NewDomainError(CodeInsufficientBalance, "Insufficient balance available")
	ErrInvalidTransition   = NewDomainError(CodeInvalidTransition, "Status transition not allowed")
	ErrMissingProof        = NewDomainError(CodeMissingProof, "Proof of transfer is required to complete a withdrawal")
)

// IsCode reports whether err is a DomainError with the given code
func IsCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
