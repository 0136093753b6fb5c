// Package errors provides custom error types for the PesaPrime API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
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

// Wallet errors.
var (
	ErrWalletNotFound    = &AppError{Code: "WALLET_NOT_FOUND", Message: "Wallet not found", StatusCode: http.StatusNotFound}
	ErrInsufficientFunds = &AppError{Code: "INSUFFICIENT_FUNDS", Message: "Insufficient wallet balance", StatusCode: http.StatusBadRequest}

	// ErrConsistency flags a balance/transaction-log mismatch. It is fatal to
	// the operation that detected it and must never be repaired by silently
	// overwriting one side with the other.
	ErrConsistency = &AppError{Code: "CONSISTENCY_ERROR", Message: "Wallet ledger is inconsistent", StatusCode: http.StatusInternalServerError}
)

// Asset errors.
var (
	ErrAssetNotFound = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrAssetInactive = &AppError{Code: "ASSET_INACTIVE", Message: "Asset is not open for investment", StatusCode: http.StatusBadRequest}
	ErrAssetUnpriced = &AppError{Code: "ASSET_UNPRICED", Message: "Asset price is invalid or unavailable", StatusCode: http.StatusBadRequest}
)

// Investment errors.
var (
	ErrInvestmentNotFound = &AppError{Code: "INVESTMENT_NOT_FOUND", Message: "Investment not found", StatusCode: http.StatusNotFound}
	ErrInvestmentClosed   = &AppError{Code: "INVESTMENT_CLOSED", Message: "Investment is already closed", StatusCode: http.StatusBadRequest}
	ErrInvalidDuration    = &AppError{Code: "INVALID_DURATION", Message: "Duration is not one of the allowed hour options", StatusCode: http.StatusBadRequest}
	ErrBelowMinimum       = &AppError{Code: "BELOW_MINIMUM", Message: "Amount is below the asset's minimum investment", StatusCode: http.StatusBadRequest}
)

// Transaction errors.
var (
	ErrTransactionNotFound  = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrTransactionImmutable = &AppError{Code: "TRANSACTION_IMMUTABLE", Message: "Completed transactions cannot be modified", StatusCode: http.StatusConflict}
)

// Bonus errors.
var (
	ErrBonusNotFound       = &AppError{Code: "BONUS_NOT_FOUND", Message: "Bonus not found", StatusCode: http.StatusNotFound}
	ErrBonusAlreadyClaimed = &AppError{Code: "BONUS_ALREADY_CLAIMED", Message: "Bonus has already been claimed", StatusCode: http.StatusConflict}
	ErrBonusExpired        = &AppError{Code: "BONUS_EXPIRED", Message: "Bonus has expired", StatusCode: http.StatusBadRequest}
)
