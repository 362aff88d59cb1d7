// Package errors defines the typed failure taxonomy shared by the API
// clients, the session layer and the purchase flow. Callers are expected to
// branch with errors.Is / errors.As, never on message strings.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotAuthenticated = errors.New("user is not authenticated")
	ErrNoRefreshToken   = errors.New("no refresh token available")

	// Purchase preconditions.
	ErrBalanceUnavailable  = errors.New("balance snapshot unavailable")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrCapacityExceeded    = errors.New("event capacity exceeded")

	// Purchase execution. ErrBalanceDeductionFailed is non-fatal: the ticket
	// is already granted when it occurs.
	ErrPaymentFailed          = errors.New("payment processing failed")
	ErrBalanceDeductionFailed = errors.New("balance deduction failed")

	ErrForbidden = errors.New("operation is forbidden for user")
)

// AuthError carries a server-supplied rejection message from the auth service.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return e.Message
}

// ServiceError is an error envelope a backend service deliberately returned,
// carrying the server-supplied message and HTTP status.
type ServiceError struct {
	Message string
	Status  int
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service returned status %d", e.Status)
	}
	return e.Message
}

// NetworkError marks a transport-level failure, as opposed to an error
// envelope the server deliberately returned.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError is a client-side form check failure; the request never left
// the gateway.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Code maps an error to a stable machine-readable identifier so the UI can
// render a distinct affordance per case.
func Code(err error) string {
	var ve *ValidationError
	var ae *AuthError
	var ne *NetworkError
	var se *ServiceError
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "NOT_AUTHENTICATED"
	case errors.Is(err, ErrNoRefreshToken):
		return "NO_REFRESH_TOKEN"
	case errors.Is(err, ErrBalanceUnavailable):
		return "BALANCE_UNAVAILABLE"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrCapacityExceeded):
		return "CAPACITY_EXCEEDED"
	case errors.Is(err, ErrPaymentFailed):
		return "PAYMENT_FAILED"
	case errors.Is(err, ErrBalanceDeductionFailed):
		return "BALANCE_DEDUCTION_FAILED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.As(err, &ve):
		return "VALIDATION_ERROR"
	case errors.As(err, &ae):
		return "AUTH_ERROR"
	case errors.As(err, &ne):
		return "NETWORK_ERROR"
	case errors.As(err, &se):
		return "SERVICE_ERROR"
	}
	return "INTERNAL_ERROR"
}

// HTTPStatus maps an error to the status the gateway answers with.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var ae *AuthError
	var se *ServiceError
	switch {
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrNoRefreshToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInsufficientBalance), errors.Is(err, ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, ErrBalanceUnavailable), errors.Is(err, ErrPaymentFailed):
		return http.StatusBadGateway
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ae):
		return http.StatusUnauthorized
	case errors.As(err, &se):
		if se.Status >= 400 && se.Status < 600 {
			return se.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Is, As and New re-export the standard helpers so call sites that already
// import this package don't need a second errors import.
func Is(err, target error) bool     { return errors.Is(err, target) }
func As(err error, target any) bool { return errors.As(err, target) }
func New(text string) error         { return errors.New(text) }
