package domain

import "time"

// Session is the short-lived state created when an install begins. It binds
// the OAuth state nonce to the shop that requested it and is consumed exactly
// once on callback.
type Session struct {
	Shop      string    `json:"shop"`
	State     string    `json:"state"`
	Scopes    []string  `json:"scopes"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
