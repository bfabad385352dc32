// Package httpapi is the loopback facade a UI process talks to instead of
// linking the engines directly.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/morislaflame/clo-client/internal/basket"
	"github.com/morislaflame/clo-client/internal/order"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func NewRouter(basketEngine *basket.Engine, orderEngine *order.Engine, timeout time.Duration) http.Handler {
	basketHandler := NewBasketHandler(basketEngine, timeout)
	orderHandler := NewOrderHandler(orderEngine, basketEngine, timeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/basket", func(r chi.Router) {
		r.Get("/", basketHandler.Get)
		r.Get("/count", basketHandler.Count)
		r.Get("/check/{productID}", basketHandler.Check)
		r.Post("/add", basketHandler.Add)
		r.Delete("/remove", basketHandler.Remove)
		r.Patch("/quantity", basketHandler.SetQuantity)
		r.Delete("/clear", basketHandler.Clear)
	})

	r.Route("/api/order", func(r chi.Router) {
		r.Post("/create", orderHandler.Create)
		r.Get("/my-orders", orderHandler.List)
		r.Patch("/my-orders/{id}/cancel", orderHandler.Cancel)
	})

	return otelhttp.NewHandler(r, "storefront-facade")
}
