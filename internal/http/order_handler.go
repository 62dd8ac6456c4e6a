package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/cart"
	"github.com/fjod/go_cart/order-entry/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderEntry is the part of the order-entry service the HTTP layer drives.
type OrderEntry interface {
	StartSession(ctx context.Context) (*domain.OrderSummary, error)
	Summary(ctx context.Context, id string) (*domain.OrderSummary, error)
	DeleteSession(ctx context.Context, id string) error
	SetCustomer(ctx context.Context, id string, c domain.Customer) (*domain.OrderSummary, error)
	AddProduct(ctx context.Context, id string, productID int64) (*domain.OrderSummary, error)
	UpdateItem(ctx context.Context, id string, index int, field cart.Field, value any) (*domain.OrderSummary, error)
	RemoveItem(ctx context.Context, id string, index int) (*domain.OrderSummary, error)
	SetPayment(ctx context.Context, id string, method domain.PaymentMethod, amountGiven *domain.Money) (*domain.OrderSummary, error)
	Checkout(ctx context.Context, id string) (*domain.OrderSummary, error)
	Amend(ctx context.Context, id string) (*domain.OrderSummary, error)
	Close(ctx context.Context, id string) (*domain.OrderSummary, error)
	Reset(ctx context.Context, id string) (*domain.OrderSummary, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListPromotions(ctx context.Context) ([]domain.Promotion, error)
}

type OrderHandler struct {
	orders  OrderEntry
	timeout time.Duration
	logger  *zap.Logger
}

func NewOrderHandler(orders OrderEntry, timeout time.Duration, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{
		orders:  orders,
		timeout: timeout,
		logger:  logger,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateItemRequestDTO struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type PaymentRequestDTO struct {
	Method      string        `json:"method"`
	AmountGiven *domain.Money `json:"amount_given"`
}

type CustomerRequestDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *OrderHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.orders.ListProducts(ctx)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *OrderHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	promotions, err := h.orders.ListPromotions(ctx)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, promotions)
}

func (h *OrderHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summary, err := h.orders.StartSession(ctx)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, summary)
}

func (h *OrderHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summary, err := h.orders.Summary(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *OrderHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.orders.DeleteSession(ctx, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CustomerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	summary, err := h.orders.SetCustomer(ctx, chi.URLParam(r, "id"), domain.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	summary, err := h.orders.AddProduct(ctx, chi.URLParam(r, "id"), req.ProductID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, summary)
}

// UpdateItem edits one field of the line at {index}. Numbers are decoded as
// json.Number so a fractional quantity is rejected instead of truncated.
func (h *OrderHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	index, ok := indexParam(w, r)
	if !ok {
		return
	}

	var req UpdateItemRequestDTO
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	summary, err := h.orders.UpdateItem(ctx, chi.URLParam(r, "id"), index, cart.Field(req.Field), req.Value)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	index, ok := indexParam(w, r)
	if !ok {
		return
	}

	summary, err := h.orders.RemoveItem(ctx, chi.URLParam(r, "id"), index)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *OrderHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	summary, err := h.orders.SetPayment(ctx, chi.URLParam(r, "id"), domain.PaymentMethod(req.Method), req.AmountGiven)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Checkout answers with the confirmation summary for the reviewed order.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Checkout)
}

func (h *OrderHandler) Amend(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Amend)
}

func (h *OrderHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Close)
}

func (h *OrderHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Reset)
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*domain.OrderSummary, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summary, err := fn(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_index", "index must be an integer")
		return 0, false
	}
	return index, true
}
