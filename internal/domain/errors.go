package domain

import "errors"

// Domain errors
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInternalError     = errors.New("internal server error")
	ErrProfileFetch      = errors.New("failed to fetch profile data")
	ErrCheckoutFailed    = errors.New("failed to create checkout session")
	ErrSessionVerify     = errors.New("failed to verify session")
	ErrPaymentIncomplete = errors.New("payment has not been completed")
	ErrWaitlistFailed    = errors.New("failed to process request")
)
