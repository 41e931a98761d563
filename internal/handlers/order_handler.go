package handlers

import (
	"context"
	"fmt"
	"net/http"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/services"

	"github.com/rs/zerolog"
)

type OrderHandler struct {
	orders  *services.OrderService
	session services.SessionUser
	logger  zerolog.Logger
}

func NewOrderHandler(orders *services.OrderService, session services.SessionUser, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, session: session, logger: logger}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user := h.session.CurrentUser()
	if user == nil {
		respondWithServiceError(w, h.logger, services.ErrNotAuthenticated, "")
		return
	}
	orders, err := h.orders.ForUser(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load orders")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_order_id", "Invalid order ID")
		return
	}
	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load order")
		return
	}
	respondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) PDF(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.orders.OrderPDF)
}

func (h *OrderHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.orders.InvoicePDF)
}

func (h *OrderHandler) download(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, id int64) (*apiclient.Document, error)) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_order_id", "Invalid order ID")
		return
	}
	doc, err := fetch(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to download document")
		return
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}
