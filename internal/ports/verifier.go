package ports

import "net/url"

// CallbackVerifier authenticates an OAuth callback's query parameters before
// any of them are trusted.
type CallbackVerifier interface {
	Verify(params url.Values) error
}
