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
)

type BasketHandler struct {
	engine  *basket.Engine
	timeout time.Duration
}

func NewBasketHandler(engine *basket.Engine, timeout time.Duration) *BasketHandler {
	return &BasketHandler{engine: engine, timeout: timeout}
}

type addItemRequestDTO struct {
	Product         domain.ProductSnapshot `json:"product"`
	SelectedColorID *int64                 `json:"selectedColorId,omitempty"`
	SelectedSizeID  *int64                 `json:"selectedSizeId,omitempty"`
}

type lineRequestDTO struct {
	ProductID       int64  `json:"productId"`
	SelectedColorID *int64 `json:"selectedColorId,omitempty"`
	SelectedSizeID  *int64 `json:"selectedSizeId,omitempty"`
}

type quantityRequestDTO struct {
	lineRequestDTO
	Quantity int `json:"quantity"`
}

type basketResponseDTO struct {
	Items   []domain.BasketLine  `json:"items"`
	Summary domain.BasketSummary `json:"summary"`
	Message string               `json:"message,omitempty"`
}

func (h *BasketHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.engine.Load(ctx); err != nil {
		respondEngineError(w, err)
		return
	}
	items, summary := h.engine.Snapshot()
	respondJSON(w, http.StatusOK, basketResponseDTO{Items: items, Summary: summary})
}

func (h *BasketHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	count, err := h.engine.Count(ctx)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *BasketHandler) Check(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a positive integer")
		return
	}

	colorID := optionalQueryID(r, "colorId")
	sizeID := optionalQueryID(r, "sizeId")
	respondJSON(w, http.StatusOK, map[string]bool{
		"inBasket": h.engine.Contains(productID, colorID, sizeID),
	})
}

func (h *BasketHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req addItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Product.ID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product.id must be positive")
		return
	}

	msg, err := h.engine.Add(ctx, req.Product, req.SelectedColorID, req.SelectedSizeID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	items, summary := h.engine.Snapshot()
	respondJSON(w, http.StatusCreated, basketResponseDTO{Items: items, Summary: summary, Message: msg})
}

func (h *BasketHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req lineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}

	if err := h.engine.Remove(ctx, req.ProductID, req.SelectedColorID, req.SelectedSizeID); err != nil {
		respondEngineError(w, err)
		return
	}
	items, summary := h.engine.Snapshot()
	respondJSON(w, http.StatusOK, basketResponseDTO{Items: items, Summary: summary})
}

func (h *BasketHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req quantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	if err := h.engine.SetQuantity(ctx, req.ProductID, req.Quantity, req.SelectedColorID, req.SelectedSizeID); err != nil {
		respondEngineError(w, err)
		return
	}
	items, summary := h.engine.Snapshot()
	respondJSON(w, http.StatusOK, basketResponseDTO{Items: items, Summary: summary})
}

func (h *BasketHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.engine.Clear(ctx); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "basket cleared"})
}

func optionalQueryID(r *http.Request, name string) *int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
