package errors

import (
	"errors"
	"net/http"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailNotVerified       = errors.New("email not verified")
	ErrInvalidCredentials     = errors.New("invalid credentials")

	ErrOTPNotFound = errors.New("otp record not found")
	ErrOTPExpired  = errors.New("otp expired")
	ErrOTPMismatch = errors.New("invalid otp")
	ErrOTPDelivery = errors.New("failed to send otp email")

	ErrNoFieldsToUpdate = errors.New("no fields provided to update")

	ErrMissingToken = errors.New("missing or invalid token")
	ErrTokenRevoked = errors.New("token has been logged out")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// StatusCode maps a service error to the HTTP status the boundary should
// respond with. Unknown errors map to 500 so store/driver failures never
// pick up a misleading client-facing status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrEmailAlreadyRegistered),
		errors.Is(err, ErrOTPMismatch),
		errors.Is(err, ErrNoFieldsToUpdate):
		return http.StatusBadRequest
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrOTPNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailNotVerified),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrOTPExpired):
		return http.StatusForbidden
	case errors.Is(err, ErrMissingToken),
		errors.Is(err, ErrTokenRevoked),
		errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
