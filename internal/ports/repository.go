package ports

import (
	"context"

	"supportflow-backend/internal/domain"
)

// ShopRepository defines the interface for installation record persistence.
// SaveShop is an idempotent upsert keyed by shop domain: re-installing a shop
// overwrites the stored credential instead of creating a duplicate.
type ShopRepository interface {
	SaveShop(ctx context.Context, shop *domain.Shop) error

	// GetShop returns nil (no error) when the shop has no record.
	GetShop(ctx context.Context, shopDomain string) (*domain.Shop, error)
}

// SessionStore holds OAuth install sessions keyed by state nonce. Entries
// expire on their own after the session TTL and Consume removes the entry so
// a state value can never verify twice.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error

	// Consume returns nil (no error) when the state is unknown or expired.
	Consume(ctx context.Context, state string) (*domain.Session, error)
}
