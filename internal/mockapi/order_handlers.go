package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ecomstore/internal/models"
)

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if !owns(r, req.UserID) {
		respond(w, http.StatusForbidden, "Access denied", nil)
		return
	}
	if len(req.Items) == 0 {
		respond(w, http.StatusBadRequest, "Order must contain at least one item", nil)
		return
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			respond(w, http.StatusBadRequest, "Quantity must be at least 1", nil)
			return
		}
	}

	order, err := s.store.PlaceOrder(req)
	if errors.Is(err, errNotFound) {
		respond(w, http.StatusBadRequest, "Unknown user or product", nil)
		return
	}
	s.logger.Info().Int64("order_id", order.ID).Int64("user_id", req.UserID).
		Str("total", order.TotalAmount.String()).Msg("Order placed")
	respond(w, http.StatusCreated, "Order placed successfully", order)
}

// orderFor loads the order named by the path and enforces ownership.
func (s *Server) orderFor(w http.ResponseWriter, r *http.Request) (models.Order, bool) {
	id, ok := pathID(r, "orderId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid order id", nil)
		return models.Order{}, false
	}
	order, ok := s.store.Order(id)
	if !ok {
		respond(w, http.StatusNotFound, "Order not found", nil)
		return models.Order{}, false
	}
	if order.User != nil && !owns(r, order.User.ID) {
		respond(w, http.StatusForbidden, "Access denied", nil)
		return models.Order{}, false
	}
	return order, true
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	if order, ok := s.orderFor(w, r); ok {
		respond(w, http.StatusOK, "Order fetched", order)
	}
}

func (s *Server) userOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok || !owns(r, userID) {
		respond(w, http.StatusForbidden, "Access denied", nil)
		return
	}
	respond(w, http.StatusOK, "Orders fetched", s.store.Orders(userID))
}

func (s *Server) allOrders(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "Orders fetched", s.store.Orders(0))
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "orderId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid order id", nil)
		return
	}
	var req models.OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Status.Valid() {
		respond(w, http.StatusBadRequest, "Invalid order status", nil)
		return
	}
	order, err := s.store.UpdateOrderStatus(id, req.Status)
	if err != nil {
		respond(w, http.StatusNotFound, "Order not found", nil)
		return
	}
	respond(w, http.StatusOK, "Order status updated", order)
}

func (s *Server) orderPDF(w http.ResponseWriter, r *http.Request) {
	if order, ok := s.orderFor(w, r); ok {
		writePDF(w, fmt.Sprintf("order-%d.pdf", order.ID), "Order", order)
	}
}

func (s *Server) invoicePDF(w http.ResponseWriter, r *http.Request) {
	if order, ok := s.orderFor(w, r); ok {
		writePDF(w, fmt.Sprintf("invoice-%d.pdf", order.ID), "Invoice", order)
	}
}

// writePDF emits a placeholder document; only the framing matters to clients.
func writePDF(w http.ResponseWriter, fileName, title string, order models.Order) {
	body := fmt.Sprintf("%%PDF-1.4\n%% %s #%d total %s\n%%%%EOF\n", title, order.ID, order.TotalAmount.StringFixed(2))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
