package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable covers transport failures and an open circuit breaker:
	// the backend could not be reached at all.
	ErrUnavailable = errors.New("storefront api unavailable")

	// ErrUnauthorized marks 401/403 responses so the session layer can drop
	// a stale credential without surfacing a user-facing error.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMalformedResponse marks a 2xx response missing the payload the
	// contract promises, such as an add confirmation without the item.
	ErrMalformedResponse = errors.New("malformed server response")
)

// APIError is a non-2xx response from the backend with whatever message the
// server attached, or a generic fallback when the payload had none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Message returns a user-displayable string for any gateway error.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnavailable) {
		return "Service is temporarily unavailable"
	}
	return "Something went wrong"
}
