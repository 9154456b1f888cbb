// Package execution wraps the single exchange call with error classification
// and a retry policy, and reduces every run to a terminal OrderOutcome.
package execution

import (
	"context"
	"errors"
	"net"

	"futuresOrderBot/internal/ports"
)

// Category classifies an exchange-call failure for retry purposes.
// It is assigned once per error and never depends on retry count or any
// external state.
type Category string

const (
	Network        Category = "NETWORK"
	RateLimit      Category = "RATE_LIMIT"
	BusinessLogic  Category = "BUSINESS_LOGIC"
	Authentication Category = "AUTHENTICATION"
)

// Retryable reports whether failures in this category are worth retrying.
// Business rejections and bad credentials will not heal on their own.
func (c Category) Retryable() bool {
	return c == Network || c == RateLimit
}

// Classify maps an error from the exchange gateway to its category.
// The gateway wraps raw transport and API errors with the ports sentinel
// taxonomy, so classification is a chain walk with errors.Is, evaluated in
// order: connectivity first, then rate limiting, then authentication, with
// everything else treated as a business rejection.
func Classify(err error) Category {
	switch {
	case errors.Is(err, ports.ErrConnectionFailed),
		errors.Is(err, ports.ErrTimeout),
		errors.Is(err, ports.ErrExchangeUnavailable),
		errors.Is(err, ports.ErrContextCanceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		isNetError(err):
		return Network
	case errors.Is(err, ports.ErrRateLimited):
		return RateLimit
	case errors.Is(err, ports.ErrAuthenticationFailed),
		errors.Is(err, ports.ErrInvalidAPIKeys),
		errors.Is(err, ports.ErrPermissionDenied):
		return Authentication
	default:
		// Includes ErrInsufficientFunds, ErrInvalidRequest,
		// ErrOrderPlacementFailed and anything unrecognized. Retrying an
		// unclassified order placement risks a double fill.
		return BusinessLogic
	}
}

// isNetError catches raw transport errors that slipped past the gateway's
// translation (DNS failures, dial errors, socket timeouts).
func isNetError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}
