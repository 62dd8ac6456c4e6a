// Package catalog holds the read-only product and promotion lookups the order
// entry service depends on, plus the static and remote implementations.
package catalog

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/order-entry/internal/domain"
)

var ErrNotFound = errors.New("not found in catalog")

type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type PromotionCatalog interface {
	GetPromotion(ctx context.Context, code string) (*domain.Promotion, error)
	ListPromotions(ctx context.Context) ([]domain.Promotion, error)
}

// Catalog is both lookups; every implementation in this repo serves both.
type Catalog interface {
	ProductCatalog
	PromotionCatalog
}
