package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/order-entry/internal/cart"
	"github.com/fjod/go_cart/order-entry/internal/domain"
	"github.com/fjod/go_cart/order-entry/internal/service"
	"github.com/fjod/go_cart/order-entry/internal/session"
	"github.com/fjod/go_cart/order-entry/internal/store"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{store.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	{service.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{cart.ErrIndexOutOfRange, http.StatusUnprocessableEntity, "index_out_of_range"},
	{cart.ErrUnknownField, http.StatusBadRequest, "unknown_field"},
	{cart.ErrInvalidFieldValue, http.StatusBadRequest, "invalid_field_value"},
	{cart.ErrInvalidQuantity, http.StatusUnprocessableEntity, "invalid_quantity"},
	{service.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{domain.ErrUnknownPaymentMethod, http.StatusBadRequest, "unknown_payment_method"},
	{session.ErrCheckoutBlocked, http.StatusPaymentRequired, "insufficient_cash"},
	{session.ErrEmptyCart, http.StatusConflict, "empty_cart"},
	{session.ErrSessionReadOnly, http.StatusConflict, "session_read_only"},
	{domain.ErrIllegalTransition, http.StatusConflict, "illegal_transition"},
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func (h *OrderHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			respondJSON(w, m.status, ErrorResponse{
				Error:   m.target.Error(),
				Code:    m.code,
				Details: err.Error(),
			})
			return
		}
	}

	h.logger.Error("request failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
