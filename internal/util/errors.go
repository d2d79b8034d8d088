// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrInsufficientBalance = errors.New("insufficient coin balance")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentExpired      = errors.New("payment has expired")
	ErrInvalidTransition   = errors.New("invalid payment state transition")
	ErrConfigKeyNotFound   = errors.New("configuration key not found")
	// Add more specific errors as needed
)

// IsError reports whether err wraps target. Thin wrapper around errors.Is
// so callers don't need a second errors import next to this package.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
