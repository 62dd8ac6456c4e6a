package domain

import "errors"

var (
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrIllegalTransition    = errors.New("illegal transition of session state")
)
