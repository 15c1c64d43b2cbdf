// Package errors provides custom error types for the Clario API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
//
// Gateway failures (market data, economic indicators) are deliberately
// NOT represented here: price and rate unavailability is an expected
// condition that the valuation services absorb with fallback values.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Bank account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Bank account not found", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse    = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing transactions", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
)

// Credit card errors.
var (
	ErrCardNotFound            = &AppError{Code: "CARD_NOT_FOUND", Message: "Credit card not found", StatusCode: http.StatusNotFound}
	ErrCardTransactionNotFound = &AppError{Code: "CARD_TRANSACTION_NOT_FOUND", Message: "Card transaction not found", StatusCode: http.StatusNotFound}
)

// Investment ledger errors.
var (
	ErrRecordNotFound     = &AppError{Code: "RECORD_NOT_FOUND", Message: "Investment record not found", StatusCode: http.StatusNotFound}
	ErrInvalidAssetClass  = &AppError{Code: "INVALID_ASSET_CLASS", Message: "Unsupported asset class", StatusCode: http.StatusBadRequest}
	ErrInvalidRateIndexer = &AppError{Code: "INVALID_RATE_INDEXER", Message: "Unsupported rate indexer", StatusCode: http.StatusBadRequest}
)

// Market data errors. Ticker search proxies the provider directly, so its
// failures surface to the client instead of degrading to a fallback value.
var (
	ErrSearchUnavailable = &AppError{Code: "SEARCH_UNAVAILABLE", Message: "Ticker search is temporarily unavailable", StatusCode: http.StatusBadGateway}
)
