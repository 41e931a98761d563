package handlers

import (
	"net/http"

	"ecomstore/internal/currency"
	"ecomstore/internal/services"

	"github.com/rs/zerolog"
)

type CartHandler struct {
	cart   *services.CartStore
	logger zerolog.Logger
}

func NewCartHandler(cart *services.CartStore, logger zerolog.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

type cartResponse struct {
	services.CartSnapshot
	TotalFormatted string `json:"totalFormatted"`
}

type cartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		if err := h.cart.Fetch(r.Context()); err != nil {
			respondWithServiceError(w, h.logger, err, "Failed to load cart")
			return
		}
	}
	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := h.cart.AddItem(r.Context(), req.ProductID, req.Quantity); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to add item to cart")
		return
	}
	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_item_id", "Invalid cart item ID")
		return
	}
	var req cartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}
	if err := h.cart.SetItemQuantity(r.Context(), itemID, req.ProductID, req.Quantity); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to update cart item")
		return
	}
	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_item_id", "Invalid cart item ID")
		return
	}
	if err := h.cart.RemoveItem(r.Context(), itemID); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to remove cart item")
		return
	}
	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to clear cart")
		return
	}
	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, code int) {
	snap := h.cart.Snapshot()
	respondWithJSON(w, code, cartResponse{CartSnapshot: snap, TotalFormatted: currency.FormatPrice(snap.Total)})
}
