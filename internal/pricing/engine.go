// Package pricing turns cart line items and their promotion codes into
// per-line discounts and an order total. Everything here is a pure function
// of its inputs so it can run on every cart change.
package pricing

import (
	"github.com/fjod/go_cart/order-entry/internal/domain"
)

var hundred = domain.NewMoney(100)

// PromotionLookup resolves a promotion code. ok is false for unknown codes.
type PromotionLookup func(code string) (promotion domain.Promotion, ok bool)

// MapLookup builds a lookup over an already resolved set of promotions.
func MapLookup(promotions ...domain.Promotion) PromotionLookup {
	byCode := make(map[string]domain.Promotion, len(promotions))
	for _, p := range promotions {
		byCode[p.Code] = p
	}
	return func(code string) (domain.Promotion, bool) {
		p, ok := byCode[code]
		return p, ok
	}
}

// LineDiscount applies promotion to a single item. A percent promotion is taken
// off the unit price once, not off quantity*price; a flat promotion is taken
// off once regardless of quantity.
func LineDiscount(item domain.LineItem, promotion domain.Promotion, found bool) domain.Money {
	if !found || item.PromotionCode == "" {
		return domain.Zero
	}
	switch promotion.Type {
	case domain.PromotionTypePercent:
		return item.Price.Mul(promotion.Value).Div(hundred)
	case domain.PromotionTypeFlat:
		return promotion.Value
	default:
		return domain.Zero
	}
}

func discountFor(item domain.LineItem, lookup PromotionLookup) (domain.Money, bool) {
	if item.PromotionCode == "" || lookup == nil {
		return domain.Zero, false
	}
	promotion, ok := lookup(item.PromotionCode)
	if !ok || !promotion.Type.Valid() {
		return domain.Zero, false
	}
	return LineDiscount(item, promotion, true), true
}

// Total is the sum of quantity*price - discount over items. It is not clamped:
// a flat promotion larger than a line's subtotal makes the line negative.
func Total(items []domain.LineItem, lookup PromotionLookup) domain.Money {
	total := domain.Zero
	for _, item := range items {
		discount, _ := discountFor(item, lookup)
		total = total.Add(item.Subtotal()).Sub(discount)
	}
	return total
}

// Quote is the per-line breakdown behind a total.
type Quote struct {
	Lines []domain.PricedLine
	Total domain.Money
	// Misses lists non-empty promotion codes that matched nothing.
	Misses []string
}

func Price(items []domain.LineItem, lookup PromotionLookup) Quote {
	q := Quote{
		Lines: make([]domain.PricedLine, 0, len(items)),
		Total: domain.Zero,
	}
	for _, item := range items {
		discount, applied := discountFor(item, lookup)
		if item.PromotionCode != "" && !applied {
			q.Misses = append(q.Misses, item.PromotionCode)
		}
		subtotal := item.Subtotal()
		line := domain.PricedLine{
			LineItem:         item,
			Subtotal:         subtotal,
			Discount:         discount,
			Total:            subtotal.Sub(discount),
			PromotionApplied: applied,
		}
		q.Lines = append(q.Lines, line)
		q.Total = q.Total.Add(line.Total)
	}
	return q
}

// Codes returns the distinct non-empty promotion codes in items, in first-seen order.
func Codes(items []domain.LineItem) []string {
	seen := make(map[string]struct{}, len(items))
	var codes []string
	for _, item := range items {
		if item.PromotionCode == "" {
			continue
		}
		if _, ok := seen[item.PromotionCode]; ok {
			continue
		}
		seen[item.PromotionCode] = struct{}{}
		codes = append(codes, item.PromotionCode)
	}
	return codes
}
