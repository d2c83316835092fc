// internal/payment/errors.go
package payment

import "errors"

// Standard payment errors. The gateway translates provider errors into
// these so stripe-go types never leak above this package.
var (
	ErrPaymentFailed   = errors.New("payment gateway rejected the transaction")
	ErrInvalidAmount   = errors.New("invalid payment amount")
	ErrNoPaymentMethod = errors.New("submission carries no payment method artifact")
	ErrProviderDown    = errors.New("payment provider is currently unavailable")
)
