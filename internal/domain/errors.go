package domain

import "errors"

// Failure taxonomy for the install and lookup flows. Handlers map these to
// HTTP statuses with errors.Is; everything else surfaces as a generic 500.
var (
	// ErrInvalidRequest covers malformed or missing caller input.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAuthenticityFailure means the callback HMAC or state nonce did not
	// verify. The token exchange must never run after this.
	ErrAuthenticityFailure = errors.New("callback authenticity verification failed")

	// ErrExchangeFailure means the code-for-token exchange with Shopify was
	// unreachable, rejected, or returned a malformed body.
	ErrExchangeFailure = errors.New("token exchange failed")

	// ErrPersistenceFailure means the credential store read or write failed.
	ErrPersistenceFailure = errors.New("credential persistence failed")

	// ErrStoreNotFound means no installation record exists for the shop.
	ErrStoreNotFound = errors.New("store not installed")

	// ErrOrderNotFound means the shop has no order matching the lookup.
	ErrOrderNotFound = errors.New("order not found")
)
