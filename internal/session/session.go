// Package session models one clerk's in-progress order and the explicit
// lifecycle it moves through: building, review pending and closed.
package session

import (
	"fmt"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/cart"
	"github.com/fjod/go_cart/order-entry/internal/domain"
	"github.com/fjod/go_cart/order-entry/internal/settlement"
)

type Session struct {
	ID            string               `json:"id"`
	State         domain.SessionState  `json:"state"`
	Customer      domain.Customer      `json:"customer"`
	Cart          *cart.Store          `json:"cart"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	AmountGiven   *domain.Money        `json:"amount_given,omitempty"`
	// Promotions resolved at checkout. A reviewed or closed order is priced
	// with these, not with whatever the catalog says later.
	Promotions []domain.Promotion `json:"promotions,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// New starts an empty order paying cash, as the order-entry screen does.
func New(id string, now time.Time) *Session {
	return &Session{
		ID:            id,
		State:         domain.SessionStateBuilding,
		Cart:          cart.NewStore(),
		PaymentMethod: domain.PaymentMethodCash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *Session) SetCustomer(c domain.Customer) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	s.Customer = c
	return nil
}

func (s *Session) AddProduct(p domain.Product) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	s.Cart.Add(p)
	return nil
}

func (s *Session) UpdateItem(index int, field cart.Field, value any) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	return s.Cart.UpdateField(index, field, value)
}

func (s *Session) RemoveItem(index int) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	return s.Cart.Remove(index)
}

// SetPayment selects the payment method. The tendered amount is kept only for
// cash; switching to card drops it.
func (s *Session) SetPayment(method domain.PaymentMethod, amountGiven *domain.Money) error {
	if err := s.checkEditable(); err != nil {
		return err
	}
	if _, err := domain.ParsePaymentMethod(string(method)); err != nil {
		return err
	}
	s.PaymentMethod = method
	if method == domain.PaymentMethodCash {
		s.AmountGiven = amountGiven
	} else {
		s.AmountGiven = nil
	}
	return nil
}

// Checkout freezes the order for review. The caller settles the current total
// and passes the policy decision in; a refused decision keeps the session building.
func (s *Session) Checkout(decision settlement.Decision) error {
	if !domain.CanTransitionTo(s.State, domain.SessionStateReviewPending) {
		return s.illegal(domain.SessionStateReviewPending)
	}
	if s.Cart.Len() == 0 {
		return ErrEmptyCart
	}
	if !decision.Allowed {
		return fmt.Errorf("%w: %s", ErrCheckoutBlocked, decision.Warning)
	}
	s.State = domain.SessionStateReviewPending
	return nil
}

// Amend returns a reviewed order to editing without confirming it.
func (s *Session) Amend() error {
	if err := s.transition(domain.SessionStateBuilding, domain.SessionStateReviewPending); err != nil {
		return err
	}
	s.Promotions = nil
	return nil
}

// Close dismisses the confirmation. A closed order stays closed until Reset.
func (s *Session) Close() error {
	return s.transition(domain.SessionStateClosed, domain.SessionStateReviewPending)
}

// Reset starts a fresh order in the same session.
func (s *Session) Reset() error {
	if err := s.transition(domain.SessionStateBuilding, domain.SessionStateClosed); err != nil {
		return err
	}
	s.Customer = domain.Customer{}
	s.Cart.Clear()
	s.PaymentMethod = domain.PaymentMethodCash
	s.AmountGiven = nil
	s.Promotions = nil
	return nil
}

// transition moves to `to` only from `from`. Amend and Reset both land in
// building but from different states, so the table alone is not enough.
func (s *Session) transition(to, from domain.SessionState) error {
	if s.State != from || !domain.CanTransitionTo(s.State, to) {
		return s.illegal(to)
	}
	s.State = to
	return nil
}

func (s *Session) illegal(to domain.SessionState) error {
	return fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, s.State, to)
}

func (s *Session) checkEditable() error {
	if !s.State.IsEditable() {
		return fmt.Errorf("%w (state %s)", ErrSessionReadOnly, s.State)
	}
	return nil
}
