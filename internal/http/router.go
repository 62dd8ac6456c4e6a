package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "order-entry"

func NewRouter(h *OrderHandler, logger *zap.Logger, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestIDHeader)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(metrics.Middleware(serviceName))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/promotions", h.ListPromotions)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.StartSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Put("/customer", h.SetCustomer)
				r.Post("/items", h.AddItem)
				r.Patch("/items/{index}", h.UpdateItem)
				r.Delete("/items/{index}", h.RemoveItem)
				r.Put("/payment", h.SetPayment)
				r.Post("/checkout", h.Checkout)
				r.Post("/amend", h.Amend)
				r.Post("/close", h.Close)
				r.Post("/reset", h.Reset)
			})
		})
	})

	return r
}
