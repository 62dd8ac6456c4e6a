package session

import "errors"

var (
	ErrSessionReadOnly = errors.New("order is not being built, cart is read-only")
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutBlocked = errors.New("checkout blocked by settlement policy")
)
