package service

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/order-entry/internal/catalog"
	"github.com/fjod/go_cart/order-entry/internal/domain"
	"github.com/fjod/go_cart/order-entry/internal/metrics"
	"github.com/fjod/go_cart/order-entry/internal/pricing"
	"github.com/fjod/go_cart/order-entry/internal/session"
	"github.com/fjod/go_cart/order-entry/internal/settlement"
	"go.uber.org/zap"
)

// resolvePromotions fetches every code used in items once and returns the
// ones that exist. Unknown codes and catalog failures both mean "no
// promotion": a bad code must never block pricing.
func (s *OrderEntryService) resolvePromotions(ctx context.Context, items []domain.LineItem) []domain.Promotion {
	var found []domain.Promotion
	for _, code := range pricing.Codes(items) {
		p, err := s.catalog.GetPromotion(ctx, code)
		switch {
		case err == nil:
			found = append(found, *p)
		case errors.Is(err, catalog.ErrNotFound):
			metrics.PromotionMisses.WithLabelValues("unknown").Inc()
		default:
			metrics.PromotionMisses.WithLabelValues("error").Inc()
			s.logger.Warn("promotion lookup failed, pricing without it",
				zap.String("code", code),
				zap.Error(err))
		}
	}
	return found
}

// promotionsFor returns the promotions a session is priced with: the live
// catalog while building, the checkout snapshot afterwards.
func (s *OrderEntryService) promotionsFor(ctx context.Context, sess *session.Session) []domain.Promotion {
	if sess.State.IsEditable() {
		return s.resolvePromotions(ctx, sess.Cart.Items())
	}
	return sess.Promotions
}

func (s *OrderEntryService) summarize(ctx context.Context, sess *session.Session, warning string) *domain.OrderSummary {
	quote := pricing.Price(sess.Cart.Items(), pricing.MapLookup(s.promotionsFor(ctx, sess)...))
	result := settlement.Settle(sess.PaymentMethod, quote.Total, sess.AmountGiven)
	if warning == "" && !result.Sufficient {
		warning = s.policy.Evaluate(result).Warning
	}

	summary := &domain.OrderSummary{
		SessionID:     sess.ID,
		State:         sess.State,
		Customer:      sess.Customer,
		Lines:         quote.Lines,
		Total:         quote.Total,
		PaymentMethod: sess.PaymentMethod,
		AmountGiven:   sess.AmountGiven,
		Change:        result.Change,
		Shortfall:     result.Shortfall,
		Sufficient:    result.Sufficient,
		Settlement:    result.Status,
		Warning:       warning,
	}
	if s.formatter != nil {
		summary.Display = s.display(summary)
	}
	return summary
}

func (s *OrderEntryService) display(sum *domain.OrderSummary) *domain.SummaryDisplay {
	d := &domain.SummaryDisplay{
		Total: s.formatter.Amount(sum.Total),
		Lines: make([]string, 0, len(sum.Lines)),
	}
	for _, l := range sum.Lines {
		d.Lines = append(d.Lines, s.formatter.Line(l))
	}
	if sum.PaymentMethod == domain.PaymentMethodCash {
		given := domain.Zero
		if sum.AmountGiven != nil {
			given = *sum.AmountGiven
		}
		d.AmountGiven = s.formatter.Amount(given)
		if sum.Change.IsPositive() {
			d.Change = s.formatter.Amount(sum.Change)
		}
	}
	return d
}
