package cart

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fjod/go_cart/order-entry/internal/domain"
)

// Field names a mutable LineItem field.
type Field string

const (
	FieldQuantity      Field = "quantity"
	FieldPromotionCode Field = "promotionCode"
)

// Store holds the line items of one in-progress order in insertion order.
// It is owned by a single session and is not safe for concurrent use.
type Store struct {
	items []domain.LineItem
}

func NewStore(items ...domain.LineItem) *Store {
	s := &Store{}
	s.items = append(s.items, items...)
	return s
}

func (s *Store) Add(p domain.Product) {
	s.items = append(s.items, domain.NewLineItem(p))
}

// UpdateField replaces one field of the item at index. Quantity accepts any Go
// integer, a float64 with no fraction (decoded JSON) or a numeric string;
// promotionCode accepts a string. The cart is unchanged on error.
func (s *Store) UpdateField(index int, field Field, value any) error {
	switch field {
	case FieldQuantity:
		q, err := toQuantity(value)
		if err != nil {
			return err
		}
		return s.SetQuantity(index, q)
	case FieldPromotionCode:
		code, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s wants a string, got %T", ErrInvalidFieldValue, field, value)
		}
		return s.SetPromotionCode(index, code)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

func (s *Store) SetQuantity(index, quantity int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	s.items[index].Quantity = quantity
	return nil
}

func (s *Store) SetPromotionCode(index int, code string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.items[index].PromotionCode = code
	return nil
}

// Remove deletes the item at index; later items shift left by one.
func (s *Store) Remove(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// Items returns a copy so callers cannot mutate the cart behind its back.
func (s *Store) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Clear() {
	s.items = nil
}

func (s *Store) MarshalJSON() ([]byte, error) {
	items := s.items
	if items == nil {
		items = []domain.LineItem{}
	}
	return json.Marshal(items)
}

func (s *Store) UnmarshalJSON(data []byte) error {
	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	s.items = items
	return nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: index %d, cart has %d items", ErrIndexOutOfRange, index, len(s.items))
	}
	return nil
}

func toQuantity(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: quantity %v is not a whole number", ErrInvalidFieldValue, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: quantity %q: %v", ErrInvalidFieldValue, v, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: quantity %q: %v", ErrInvalidFieldValue, v, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: quantity wants a number, got %T", ErrInvalidFieldValue, value)
	}
}
