package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/cart"
	"github.com/fjod/go_cart/order-entry/internal/catalog"
	"github.com/fjod/go_cart/order-entry/internal/domain"
	"github.com/fjod/go_cart/order-entry/internal/format"
	"github.com/fjod/go_cart/order-entry/internal/metrics"
	"github.com/fjod/go_cart/order-entry/internal/pricing"
	"github.com/fjod/go_cart/order-entry/internal/session"
	"github.com/fjod/go_cart/order-entry/internal/settlement"
	"github.com/fjod/go_cart/order-entry/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderEntryService struct {
	store     store.SessionStore
	catalog   catalog.Catalog
	policy    settlement.Policy
	formatter *format.Formatter
	logger    *zap.Logger

	locks sync.Map // session id -> *sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewOrderEntryService(
	sessions store.SessionStore,
	cat catalog.Catalog,
	policy settlement.Policy,
	formatter *format.Formatter,
	logger *zap.Logger,
) *OrderEntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderEntryService{
		store:     sessions,
		catalog:   cat,
		policy:    policy,
		formatter: formatter,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

func (s *OrderEntryService) StartSession(ctx context.Context) (*domain.OrderSummary, error) {
	sess := session.New(s.newID(), s.now())
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.Error("save new session failed", zap.Error(err))
		return nil, err
	}
	metrics.SessionsStarted.Inc()
	s.logger.Info("order session started", zap.String("session_id", sess.ID))
	return s.summarize(ctx, sess, ""), nil
}

func (s *OrderEntryService) Summary(ctx context.Context, id string) (*domain.OrderSummary, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, sess, ""), nil
}

func (s *OrderEntryService) DeleteSession(ctx context.Context, id string) error {
	unlock := s.lock(id)
	err := s.store.Delete(ctx, id)
	unlock()
	if err != nil {
		return err
	}
	// Only after unlocking: a waiter on this mutex finds the session gone.
	s.locks.Delete(id)

	s.logger.Info("order session deleted", zap.String("session_id", id))
	return nil
}

func (s *OrderEntryService) SetCustomer(ctx context.Context, id string, c domain.Customer) (*domain.OrderSummary, error) {
	return s.mutate(ctx, id, func(sess *session.Session) error {
		return sess.SetCustomer(c)
	})
}

// AddProduct looks productID up in the catalog and appends it to the cart.
// An unknown product leaves the cart untouched.
func (s *OrderEntryService) AddProduct(ctx context.Context, id string, productID int64) (*domain.OrderSummary, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	if err != nil {
		s.logger.Error("product lookup failed", zap.Int64("product_id", productID), zap.Error(err))
		return nil, err
	}

	return s.mutate(ctx, id, func(sess *session.Session) error {
		return sess.AddProduct(*product)
	})
}

func (s *OrderEntryService) UpdateItem(ctx context.Context, id string, index int, field cart.Field, value any) (*domain.OrderSummary, error) {
	return s.mutate(ctx, id, func(sess *session.Session) error {
		return sess.UpdateItem(index, field, value)
	})
}

func (s *OrderEntryService) RemoveItem(ctx context.Context, id string, index int) (*domain.OrderSummary, error) {
	return s.mutate(ctx, id, func(sess *session.Session) error {
		return sess.RemoveItem(index)
	})
}

func (s *OrderEntryService) SetPayment(ctx context.Context, id string, method domain.PaymentMethod, amountGiven *domain.Money) (*domain.OrderSummary, error) {
	if amountGiven != nil && amountGiven.IsNegative() {
		return nil, ErrInvalidAmount
	}
	return s.mutate(ctx, id, func(sess *session.Session) error {
		return sess.SetPayment(method, amountGiven)
	})
}

// Checkout prices the cart, settles it and moves the session to review when
// the cash shortfall policy allows. The returned summary is what the
// confirmation surface shows.
func (s *OrderEntryService) Checkout(ctx context.Context, id string) (*domain.OrderSummary, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	promotions := s.resolvePromotions(ctx, sess.Cart.Items())
	quote := pricing.Price(sess.Cart.Items(), pricing.MapLookup(promotions...))
	result := settlement.Settle(sess.PaymentMethod, quote.Total, sess.AmountGiven)
	decision := s.policy.Evaluate(result)

	if err := sess.Checkout(decision); err != nil {
		metrics.CheckoutsTotal.WithLabelValues(checkoutOutcome(err)).Inc()
		s.logger.Info("checkout refused",
			zap.String("session_id", id),
			zap.String("state", sess.State.String()),
			zap.Error(err))
		return nil, err
	}

	sess.Promotions = promotions
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.Error("save session failed", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}

	metrics.CheckoutsTotal.WithLabelValues("reviewed").Inc()
	metrics.SettlementsTotal.WithLabelValues(sess.PaymentMethod.String(), string(result.Status)).Inc()
	s.logger.Info("order ready for review",
		zap.String("session_id", id),
		zap.String("total", quote.Total.String()),
		zap.String("payment_method", sess.PaymentMethod.String()),
		zap.String("settlement", string(result.Status)))

	return s.summarize(ctx, sess, decision.Warning), nil
}

func (s *OrderEntryService) Amend(ctx context.Context, id string) (*domain.OrderSummary, error) {
	return s.mutate(ctx, id, (*session.Session).Amend)
}

func (s *OrderEntryService) Close(ctx context.Context, id string) (*domain.OrderSummary, error) {
	return s.mutate(ctx, id, (*session.Session).Close)
}

func (s *OrderEntryService) Reset(ctx context.Context, id string) (*domain.OrderSummary, error) {
	return s.mutate(ctx, id, (*session.Session).Reset)
}

func (s *OrderEntryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.ListProducts(ctx)
}

func (s *OrderEntryService) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	return s.catalog.ListPromotions(ctx)
}

// mutate loads the session, applies fn and saves it back. Nothing is saved
// when fn fails, so a rejected edit never half-applies.
func (s *OrderEntryService) mutate(ctx context.Context, id string, fn func(*session.Session) error) (*domain.OrderSummary, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(sess); err != nil {
		return nil, err
	}

	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.Error("save session failed", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}

	return s.summarize(ctx, sess, ""), nil
}

// lock serialises edits to one session inside this process.
func (s *OrderEntryService) lock(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func checkoutOutcome(err error) string {
	switch {
	case errors.Is(err, session.ErrCheckoutBlocked):
		return "blocked"
	case errors.Is(err, session.ErrEmptyCart):
		return "empty"
	default:
		return "illegal"
	}
}
