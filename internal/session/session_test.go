package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/cart"
	"github.com/fjod/go_cart/order-entry/internal/domain"
	"github.com/fjod/go_cart/order-entry/internal/settlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	productA = domain.Product{ID: 1, Name: "Product A", Price: domain.NewMoney(180000)}
	allowed  = settlement.Decision{Allowed: true}
)

func newWithItem(t *testing.T) *Session {
	t.Helper()
	s := New("s-1", time.Now())
	require.NoError(t, s.AddProduct(productA))
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := New("s-1", time.Now())
	assert.Equal(t, domain.SessionStateBuilding, s.State)
	assert.Equal(t, domain.PaymentMethodCash, s.PaymentMethod)
	assert.Nil(t, s.AmountGiven)
	assert.Equal(t, 0, s.Cart.Len())
}

func TestCheckout_MovesToReview(t *testing.T) {
	s := newWithItem(t)
	require.NoError(t, s.Checkout(allowed))
	assert.Equal(t, domain.SessionStateReviewPending, s.State)
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := New("s-1", time.Now())
	assert.ErrorIs(t, s.Checkout(allowed), ErrEmptyCart)
	assert.Equal(t, domain.SessionStateBuilding, s.State)
}

func TestCheckout_Blocked(t *testing.T) {
	s := newWithItem(t)
	err := s.Checkout(settlement.Decision{Allowed: false, Warning: "cash tendered is short by 10"})
	assert.ErrorIs(t, err, ErrCheckoutBlocked)
	assert.ErrorContains(t, err, "short by 10")
	assert.Equal(t, domain.SessionStateBuilding, s.State)
}

func TestReviewPending_IsReadOnly(t *testing.T) {
	s := newWithItem(t)
	require.NoError(t, s.Checkout(allowed))

	assert.ErrorIs(t, s.AddProduct(productA), ErrSessionReadOnly)
	assert.ErrorIs(t, s.UpdateItem(0, cart.FieldQuantity, 2), ErrSessionReadOnly)
	assert.ErrorIs(t, s.RemoveItem(0), ErrSessionReadOnly)
	assert.ErrorIs(t, s.SetCustomer(domain.Customer{Name: "x"}), ErrSessionReadOnly)
	assert.ErrorIs(t, s.SetPayment(domain.PaymentMethodCard, nil), ErrSessionReadOnly)
	assert.Equal(t, 1, s.Cart.Len())
}

func TestAmend_BackToBuildingKeepsCart(t *testing.T) {
	s := newWithItem(t)
	require.NoError(t, s.Checkout(allowed))
	require.NoError(t, s.Amend())

	assert.Equal(t, domain.SessionStateBuilding, s.State)
	assert.Equal(t, 1, s.Cart.Len())
	require.NoError(t, s.UpdateItem(0, cart.FieldQuantity, 2))
}

func TestClose_CannotBeReconfirmedWithoutReset(t *testing.T) {
	s := newWithItem(t)
	require.NoError(t, s.Checkout(allowed))
	require.NoError(t, s.Close())
	assert.Equal(t, domain.SessionStateClosed, s.State)

	assert.ErrorIs(t, s.Checkout(allowed), domain.ErrIllegalTransition)
	assert.ErrorIs(t, s.Amend(), domain.ErrIllegalTransition)
	assert.ErrorIs(t, s.Close(), domain.ErrIllegalTransition)
	assert.ErrorIs(t, s.AddProduct(productA), ErrSessionReadOnly)
}

func TestReset_ClearsOrder(t *testing.T) {
	s := newWithItem(t)
	require.NoError(t, s.SetCustomer(domain.Customer{Name: "Ann", Email: "ann@example.com", Phone: "1"}))
	given := domain.NewMoney(500000)
	require.NoError(t, s.SetPayment(domain.PaymentMethodCash, &given))
	require.NoError(t, s.Checkout(allowed))
	require.NoError(t, s.Close())

	require.NoError(t, s.Reset())

	assert.Equal(t, domain.SessionStateBuilding, s.State)
	assert.Equal(t, 0, s.Cart.Len())
	assert.Equal(t, domain.Customer{}, s.Customer)
	assert.Nil(t, s.AmountGiven)
}

func TestIllegalTransitionsFromBuilding(t *testing.T) {
	s := newWithItem(t)
	assert.ErrorIs(t, s.Amend(), domain.ErrIllegalTransition)
	assert.ErrorIs(t, s.Close(), domain.ErrIllegalTransition)
	assert.ErrorIs(t, s.Reset(), domain.ErrIllegalTransition)
}

func TestSetPayment_CardDropsAmount(t *testing.T) {
	s := New("s-1", time.Now())
	given := domain.NewMoney(100)
	require.NoError(t, s.SetPayment(domain.PaymentMethodCash, &given))
	require.NotNil(t, s.AmountGiven)

	require.NoError(t, s.SetPayment(domain.PaymentMethodCard, &given))
	assert.Equal(t, domain.PaymentMethodCard, s.PaymentMethod)
	assert.Nil(t, s.AmountGiven)

	assert.ErrorIs(t, s.SetPayment("cheque", nil), domain.ErrUnknownPaymentMethod)
}

func TestJSON_RestoresCart(t *testing.T) {
	s := newWithItem(t)
	require.NoError(t, s.UpdateItem(0, cart.FieldPromotionCode, "FLAT50"))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored Session
	require.NoError(t, json.Unmarshal(data, &restored))
	require.NotNil(t, restored.Cart)
	assert.Equal(t, "FLAT50", restored.Cart.Items()[0].PromotionCode)
	assert.Equal(t, domain.SessionStateBuilding, restored.State)
}

func TestAmendAndReset_DropCheckoutPromotions(t *testing.T) {
	flat := domain.Promotion{Code: "FLAT50", Type: domain.PromotionTypeFlat, Value: domain.NewMoney(50)}

	s := newWithItem(t)
	require.NoError(t, s.Checkout(allowed))
	s.Promotions = []domain.Promotion{flat}
	require.NoError(t, s.Amend())
	assert.Nil(t, s.Promotions)

	require.NoError(t, s.Checkout(allowed))
	s.Promotions = []domain.Promotion{flat}
	require.NoError(t, s.Close())
	assert.Equal(t, []domain.Promotion{flat}, s.Promotions)
	require.NoError(t, s.Reset())
	assert.Nil(t, s.Promotions)
}
