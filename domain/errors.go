package domain

import "errors"

// Recoverable business outcomes. Callers branch on these with errors.Is and
// offer a remedy instead of failing the request outright.
var (
	// ErrInsufficientCoin's text is the sentinel the SPA matches on; keep it
	// byte-exact.
	ErrInsufficientCoin = errors.New("insufficient coin")

	ErrNoSlotsAvailable = errors.New("task no longer available")
	ErrAlreadyFinalized = errors.New("already finalized")
	ErrBelowMinimum     = errors.New("withdrawal below minimum")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrImmutableField   = errors.New("field is immutable after creation")
	ErrEmptyDetails     = errors.New("submission details required")
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrPaymentNotFound    = errors.New("payment not found")
)
