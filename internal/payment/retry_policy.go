// internal/payment/retry_policy.go
package payment

import (
	"errors"
	"net"
	"syscall"

	"github.com/stripe/stripe-go/v79"
)

// IsRetryableError classifies a charge failure for the request-handling
// layer. The core never retries on its own (every retry is a fresh
// user-initiated submit); this only tells callers whether a retry could
// plausibly succeed.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	// The gateway maps provider 5xx onto this sentinel, dropping the raw
	// provider error from the chain; it still means "try again later".
	if errors.Is(err, ErrProviderDown) {
		return true
	}
	return isRetryableStripeError(err) || isRetryableNetworkError(err) || isRetryableSystemError(err)
}

func isRetryableStripeError(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return false
	}

	// 5xx means the provider is struggling, not that the card is bad.
	if stripeErr.HTTPStatusCode >= 500 && stripeErr.HTTPStatusCode < 600 {
		return true
	}

	switch stripeErr.Code {
	case stripe.ErrorCodeRateLimit,
		stripe.ErrorCodeLockTimeout:
		return true

	// Card / user errors never retry.
	case stripe.ErrorCodeCardDeclined,
		stripe.ErrorCodeExpiredCard,
		stripe.ErrorCodeIncorrectCVC:
		return false
	}

	return false
}

func isRetryableNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true
		}
	}
	return false
}

func isRetryableSystemError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	return false
}
