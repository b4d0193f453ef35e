package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Settlement ingestion
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrDuplicateSettlement = errors.New("settlement already applied")
	ErrUnknownAccount      = errors.New("unknown virtual account")
	ErrCurrencyMismatch    = errors.New("currency does not match wallet")

	// Provisioning and providers
	ErrPhoneRequired       = errors.New("phone number is required")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrProviderFailure     = errors.New("provider request failed")

	// Payouts
	ErrInvalidTransition  = errors.New("invalid payout status transition")
	ErrPayoutInProgress   = errors.New("payout transfer already in progress")
	ErrAccountNotVerified = errors.New("payout account not verified")
	ErrMissingBankDetails = errors.New("payout account bank details missing")
)

// Error codes returned to API clients
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeProviderError    = "PROVIDER_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string, err error) *AppError {
	if err == nil {
		err = ErrConflict
	}
	return NewAppError(http.StatusConflict, CodeConflict, message, err)
}

func Unprocessable(message string, err error) *AppError {
	if err == nil {
		err = ErrInvalidInput
	}
	return NewAppError(http.StatusUnprocessableEntity, CodeValidationFailed, message, err)
}

func BadGateway(message string, err error) *AppError {
	return NewAppError(http.StatusBadGateway, CodeProviderError, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// FromError maps sentinel errors onto an AppError for the transport layer.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownAccount):
		return NewAppError(http.StatusNotFound, CodeNotFound, err.Error(), err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedProvider), errors.Is(err, ErrCurrencyMismatch):
		return NewAppError(http.StatusBadRequest, CodeBadRequest, err.Error(), err)
	case errors.Is(err, ErrPhoneRequired):
		return Unprocessable(err.Error(), err)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidSignature):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, err.Error(), err)
	case errors.Is(err, ErrForbidden):
		return NewAppError(http.StatusForbidden, CodeForbidden, err.Error(), err)
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrPayoutInProgress),
		errors.Is(err, ErrAccountNotVerified),
		errors.Is(err, ErrMissingBankDetails),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrDuplicateSettlement):
		return Conflict(err.Error(), err)
	case errors.Is(err, ErrProviderFailure):
		return BadGateway(err.Error(), err)
	default:
		return InternalError(err)
	}
}
