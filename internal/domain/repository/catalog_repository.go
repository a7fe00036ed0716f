package repository

import (
	"context"
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
)

// CatalogGateway reads the product catalog from the backend.
type CatalogGateway interface {
	ListProducts(ctx context.Context, session entity.Session) ([]entity.Product, error)
}

// CatalogCache keeps the last catalog snapshot so several terminals can share
// one fetch. Get reports false on a miss.
type CatalogCache interface {
	Get(ctx context.Context) ([]entity.Product, bool, error)
	Set(ctx context.Context, products []entity.Product, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
