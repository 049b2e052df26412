package ports

import (
	"context"

	"supportflow-backend/internal/domain"
)

// PlatformClient defines the outbound operations against the Shopify admin
// API that the install and lookup flows need.
type PlatformClient interface {
	// AuthorizeURL builds the OAuth authorization redirect target for a shop.
	AuthorizeURL(shop string, scopes []string, redirectURI string, state string) string

	// ExchangeToken trades a verified authorization code for an access token.
	ExchangeToken(ctx context.Context, shop string, code string) (string, error)

	// FindOrderByName looks up a single order by its display name
	// (e.g. "#1001"). Returns nil when no order matches.
	FindOrderByName(ctx context.Context, shop string, accessToken string, name string) (*domain.OrderSummary, error)
}
