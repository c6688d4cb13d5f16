// Package errors defines the application error taxonomy shared by the
// checkout engine and its HTTP facade.
package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation errors: bad quantity, empty reason or approver, unknown
	// discount code, malformed payment method.
	ErrValidation = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	ErrInvalidQuantity = NewBaseError(
		http.StatusBadRequest,
		"INVALID_QUANTITY",
		"quantity must be at least 1",
		"",
	)

	ErrUnknownPaymentMethod = NewBaseError(
		http.StatusBadRequest,
		"UNKNOWN_PAYMENT_METHOD",
		"payment method must be cash, card or bank_transfer",
		"",
	)

	ErrEmptyCart = NewBaseError(
		http.StatusBadRequest,
		"EMPTY_CART",
		"cannot check out an empty cart",
		"",
	)

	// Authorization errors: approval gate not satisfied.
	ErrAuthorization = NewBaseError(
		http.StatusForbidden,
		"APPROVAL_REJECTED",
		"approver credential could not be verified",
		"",
	)

	// Not-found errors.
	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"product is not in the catalog",
		"",
	)

	ErrLineNotFound = NewBaseError(
		http.StatusNotFound,
		"LINE_NOT_FOUND",
		"product has no line in the cart",
		"",
	)

	ErrTransactionNotFound = NewBaseError(
		http.StatusNotFound,
		"TRANSACTION_NOT_FOUND",
		"unknown transaction id",
		"",
	)

	ErrCustomerNotFound = NewBaseError(
		http.StatusNotFound,
		"CUSTOMER_NOT_FOUND",
		"unknown customer id",
		"",
	)

	ErrProviderNotFound = NewBaseError(
		http.StatusNotFound,
		"PROVIDER_NOT_FOUND",
		"delivery provider is unknown or not quotable for this cart",
		"",
	)

	// Invalid-state errors: transition out of a non-Completed transaction.
	ErrInvalidState = NewBaseError(
		http.StatusConflict,
		"INVALID_STATE",
		"only completed transactions can be voided or returned",
		"",
	)

	// Device errors: payment device unavailable, busy or cancelled.
	ErrDevice = NewBaseError(
		http.StatusServiceUnavailable,
		"DEVICE_ERROR",
		"payment device unavailable",
		"",
	)

	// Sync errors are recoverable and never block local checkout.
	ErrSync = NewBaseError(
		http.StatusBadGateway,
		"SYNC_FAILED",
		"reconciliation with the accounting system failed",
		"",
	)
)
