package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/morislaflame/clo-client/internal/basket"
	"github.com/morislaflame/clo-client/internal/domain"
	"github.com/morislaflame/clo-client/internal/order"
)

type OrderHandler struct {
	engine  *order.Engine
	basket  *basket.Engine
	timeout time.Duration
}

func NewOrderHandler(engine *order.Engine, basket *basket.Engine, timeout time.Duration) *OrderHandler {
	return &OrderHandler{engine: engine, basket: basket, timeout: timeout}
}

type createOrderRequestDTO struct {
	RecipientName  string `json:"recipientName"`
	RecipientPhone string `json:"recipientPhone"`
	RecipientEmail string `json:"recipientEmail"`
	Address        string `json:"address"`
	PaymentMethod  string `json:"paymentMethod"`
}

type orderResponseDTO struct {
	Message string        `json:"message,omitempty"`
	Order   *domain.Order `json:"order,omitempty"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req createOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	form := order.Form{
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		RecipientEmail: req.RecipientEmail,
		Address:        req.Address,
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
	}

	created, msg, err := h.engine.Create(ctx, form, h.basket)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, orderResponseDTO{Message: msg, Order: created})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.engine.List(ctx)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]domain.Order{"orders": orders})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || orderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a positive integer")
		return
	}

	cancelled, err := h.engine.Cancel(ctx, orderID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orderResponseDTO{Message: "order cancelled", Order: cancelled})
}
