package cart

import (
	"errors"
)

var (
	// ErrAuthRequired is returned when a mutation needs a logged-in user.
	ErrAuthRequired = errors.New("cart: authentication required")

	// ErrNotCustomer is returned when the logged-in user cannot shop
	// (vendor and admin accounts have no cart).
	ErrNotCustomer = errors.New("cart: only customers can add items")

	// ErrUnconfirmed marks a mutation that was applied to local state but
	// was not confirmed by the server. The cart still reflects the user's
	// intent; the caller should surface that the write is unconfirmed.
	ErrUnconfirmed = errors.New("cart: applied locally but unconfirmed by server")
)

// GatewayError is implemented by Gateway errors that carry response details.
// Unauthorized distinguishes credential rejections from other remote
// failures; Message is the server-provided human-readable message, if any.
type GatewayError interface {
	error
	Unauthorized() bool
	Message() string
}

func isUnauthorized(err error) bool {
	var ge GatewayError
	return errors.As(err, &ge) && ge.Unauthorized()
}

// remoteMessage extracts the server-provided message from a gateway error,
// falling back to the given default.
func remoteMessage(err error, fallback string) string {
	var ge GatewayError
	if errors.As(err, &ge) && ge.Message() != "" {
		return ge.Message()
	}
	return fallback
}
