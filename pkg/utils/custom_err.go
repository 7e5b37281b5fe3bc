package utils

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("missing or invalid required fields")
	ErrAuth                 = errors.New("failed to get access token")
	ErrGateway              = errors.New("mpesa gateway error")
	ErrDatabaseError        = errors.New("database error")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrEmailDelivery        = errors.New("email delivery failed")
	ErrMalformedCallback    = errors.New("malformed stk callback payload")
	ErrTooManyRequests      = errors.New("a payment request for this phone is already in progress")
	ErrInvalidCallbackToken = errors.New("invalid callback token")
)

// AuthError is returned when the OAuth token exchange with the gateway fails.
type AuthError struct {
	StatusCode int
	Detail     string
}

func (e *AuthError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", ErrAuth, e.Detail)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrAuth, e.StatusCode, e.Detail)
}

func (e *AuthError) Unwrap() error { return ErrAuth }

// GatewayError carries the provider's own error text so it can be handed
// back to the caller unchanged.
type GatewayError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *GatewayError) Error() string { return e.Message }

func (e *GatewayError) Unwrap() error { return ErrGateway }
