package service

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidAmount   = errors.New("amount given must not be negative")
)
