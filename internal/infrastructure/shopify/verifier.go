package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"

	"supportflow-backend/internal/domain"
)

// CallbackVerifier authenticates OAuth callback requests. Shopify signs the
// callback query string with the app's shared secret; a request whose digest
// does not match must never reach the token exchange.
type CallbackVerifier struct {
	secret string
}

// NewCallbackVerifier creates a verifier bound to the app's client secret.
func NewCallbackVerifier(secret string) *CallbackVerifier {
	return &CallbackVerifier{secret: secret}
}

// Verify checks the hmac parameter against a digest recomputed over the
// remaining query parameters. The comparison is constant-time.
func (v *CallbackVerifier) Verify(params url.Values) error {
	provided := params.Get("hmac")
	if provided == "" {
		return domain.ErrAuthenticityFailure
	}

	computed := v.ComputeMAC(params)
	if !hmac.Equal([]byte(computed), []byte(provided)) {
		return domain.ErrAuthenticityFailure
	}
	return nil
}

// ComputeMAC serializes every parameter except the signature fields into a
// canonical query string (sorted keys, standard percent-encoding) and returns
// the hex-encoded HMAC-SHA256 digest under the app secret. The serialization
// is deterministic, so the same parameter set always yields the same digest.
func (v *CallbackVerifier) ComputeMAC(params url.Values) string {
	message := url.Values{}
	for key, values := range params {
		if key == "hmac" || key == "signature" {
			continue
		}
		for _, value := range values {
			message.Add(key, value)
		}
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(message.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}
