package application

import (
	"context"
	"fmt"
	"strings"

	"supportflow-backend/internal/domain"
	"supportflow-backend/internal/ports"

	"github.com/rs/zerolog"
)

// OrderService answers order lookups for installed shops using their stored
// credential.
type OrderService struct {
	shops  ports.ShopRepository
	client ports.PlatformClient
	logger zerolog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(shops ports.ShopRepository, client ports.PlatformClient, logger zerolog.Logger) *OrderService {
	return &OrderService{
		shops:  shops,
		client: client,
		logger: logger,
	}
}

// LookupOrder finds a single order by display name for an installed shop.
func (s *OrderService) LookupOrder(ctx context.Context, shop string, orderName string) (*domain.OrderSummary, error) {
	shop = strings.TrimSpace(shop)
	orderName = strings.TrimSpace(orderName)
	if shop == "" || orderName == "" {
		return nil, fmt.Errorf("shop and orderName are required: %w", domain.ErrInvalidRequest)
	}

	record, err := s.shops.GetShop(ctx, shop)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to read installation record")
		return nil, fmt.Errorf("read installation record: %w", domain.ErrPersistenceFailure)
	}
	if record == nil {
		return nil, fmt.Errorf("shop %s: %w", shop, domain.ErrStoreNotFound)
	}

	order, err := s.client.FindOrderByName(ctx, shop, record.AccessToken, orderName)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Str("order", orderName).Msg("Order lookup failed")
		return nil, fmt.Errorf("lookup order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", orderName, domain.ErrOrderNotFound)
	}

	return order, nil
}
