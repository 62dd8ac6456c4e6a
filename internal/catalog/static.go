package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/fjod/go_cart/order-entry/internal/domain"
)

// Static is an immutable in-memory catalog. It backs tests and the
// CATALOG_SOURCE=static mode.
type Static struct {
	products   map[int64]domain.Product
	promotions map[string]domain.Promotion
}

func NewStatic(products []domain.Product, promotions []domain.Promotion) *Static {
	s := &Static{
		products:   make(map[int64]domain.Product, len(products)),
		promotions: make(map[string]domain.Promotion, len(promotions)),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	for _, p := range promotions {
		s.promotions[p.Code] = p
	}
	return s
}

// Default returns the two products and two promotions the counter ships with.
func Default() *Static {
	return NewStatic(
		[]domain.Product{
			{ID: 1, Name: "Product A", Price: domain.NewMoney(180000)},
			{ID: 2, Name: "Product B", Price: domain.NewMoney(200000)},
		},
		[]domain.Promotion{
			{Code: "DISCOUNT10", Type: domain.PromotionTypePercent, Value: domain.NewMoney(10)},
			{Code: "FLAT50", Type: domain.PromotionTypeFlat, Value: domain.NewMoney(50)},
		},
	)
}

func (s *Static) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (s *Static) ListProducts(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Static) GetPromotion(_ context.Context, code string) (*domain.Promotion, error) {
	p, ok := s.promotions[code]
	if !ok {
		return nil, fmt.Errorf("promotion %q: %w", code, ErrNotFound)
	}
	return &p, nil
}

func (s *Static) ListPromotions(_ context.Context) ([]domain.Promotion, error) {
	out := make([]domain.Promotion, 0, len(s.promotions))
	for _, p := range s.promotions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
