package repository

import (
	"context"
	"fmt"
	"time"

	"supportflow-backend/internal/domain"
	"supportflow-backend/internal/infrastructure/repository/entity"
	"supportflow-backend/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoShopRepository implements ShopRepository using MongoDB
type MongoShopRepository struct {
	collection *mongo.Collection
}

// NewMongoShopRepository creates a new MongoDB shop repository
func NewMongoShopRepository(db *mongo.Database) ports.ShopRepository {
	return &MongoShopRepository{
		collection: db.Collection("shops"),
	}
}

// SaveShop saves or updates an installation record. The upsert is keyed by
// shop domain, so re-installing overwrites rather than duplicating.
func (r *MongoShopRepository) SaveShop(ctx context.Context, shop *domain.Shop) error {
	doc := entity.MongoShopDocFromDomain(shop)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"domain": shop.Domain}
	update := bson.M{"$set": doc}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save shop: %w", err)
	}

	return nil
}

// GetShop retrieves an installation record by domain. Returns nil when the
// shop has never installed.
func (r *MongoShopRepository) GetShop(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	var doc entity.MongoShopDoc
	filter := bson.M{"domain": shopDomain}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	return doc.ToDomain(), nil
}
