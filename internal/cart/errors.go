package cart

import "errors"

var (
	ErrIndexOutOfRange   = errors.New("line item index out of range")
	ErrUnknownField      = errors.New("unknown line item field")
	ErrInvalidFieldValue = errors.New("invalid value for line item field")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)
