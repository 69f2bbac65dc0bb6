package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/metadata"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest          ErrorCode = "bad_request"
	ErrCodeNotFound            ErrorCode = "not_found"
	ErrCodeValidationFailed    ErrorCode = "validation_failed"
	ErrCodeUnauthorized        ErrorCode = "unauthorized"
	ErrCodeForbidden           ErrorCode = "forbidden"
	ErrCodeInvariantViolation  ErrorCode = "invariant_violation"
	ErrCodeInsufficientPayment ErrorCode = "insufficient_payment"
	ErrCodeSupplyExhausted     ErrorCode = "supply_exhausted"
	ErrCodeAlreadyInitialized  ErrorCode = "already_initialized"

	// Server errors (5xx)
	ErrCodeInternalError  ErrorCode = "internal_error"
	ErrCodeDatabaseError  ErrorCode = "database_error"
	ErrCodeServiceError   ErrorCode = "service_error"
	ErrCodeConfiguration  ErrorCode = "configuration_error"
	ErrCodeTransferFailed ErrorCode = "transfer_failed"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// Status returns the HTTP status code of the error
func (e *APIError) Status() int {
	switch e.Code {
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeInvariantViolation, ErrCodeSupplyExhausted, ErrCodeAlreadyInitialized:
		return http.StatusConflict
	case ErrCodeInsufficientPayment:
		return http.StatusPaymentRequired
	case ErrCodeConfiguration:
		return http.StatusServiceUnavailable
	case ErrCodeTransferFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newError(code ErrorCode, message string, details []string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return newError(ErrCodeBadRequest, message, details)
}

func NewNotFoundError(message string, details ...string) *APIError {
	return newError(ErrCodeNotFound, message, details)
}

func NewValidationError(details ...string) *APIError {
	return newError(ErrCodeValidationFailed, "Validation failed", details)
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return newError(ErrCodeUnauthorized, message, details)
}

func NewForbiddenError(message string, details ...string) *APIError {
	return newError(ErrCodeForbidden, message, details)
}

func NewInternalError(message string, details ...string) *APIError {
	return newError(ErrCodeInternalError, message, details)
}

func NewDatabaseError(message string, details ...string) *APIError {
	return newError(ErrCodeDatabaseError, message, details)
}

func NewServiceError(message string, details ...string) *APIError {
	return newError(ErrCodeServiceError, message, details)
}

// FromError converts any error into an APIError. Contract errors keep their
// category so that clients can tell a rejected transaction from a server fault.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	details := []string{err.Error()}
	switch {
	// ErrGameNotFound wraps ErrInvariantViolation and must be checked first
	case errors.Is(err, domain.ErrGameNotFound):
		return NewNotFoundError("Game not found", details...)
	case errors.Is(err, metadata.ErrInvalidDocument):
		return NewValidationError(details...)
	case errors.Is(err, domain.ErrUnauthorized):
		return NewForbiddenError("Caller is not authorized", details...)
	case errors.Is(err, domain.ErrInsufficientPayment):
		return newError(ErrCodeInsufficientPayment, "Insufficient payment", details)
	case errors.Is(err, domain.ErrSupplyExhausted):
		return newError(ErrCodeSupplyExhausted, "Supply exhausted", details)
	case errors.Is(err, domain.ErrAlreadyInitialized):
		return newError(ErrCodeAlreadyInitialized, "Already initialized", details)
	case errors.Is(err, domain.ErrInvariantViolation):
		return newError(ErrCodeInvariantViolation, "Transaction rejected", details)
	case errors.Is(err, domain.ErrConfiguration):
		return newError(ErrCodeConfiguration, "Contracts are not configured", details)
	case errors.Is(err, domain.ErrTransferFailed):
		return newError(ErrCodeTransferFailed, "Payout failed", details)
	default:
		return NewInternalError("Internal server error", details...)
	}
}
