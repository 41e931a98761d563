package mockapi

import (
	"errors"
	"net/http"
	"strconv"
)

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok || !owns(r, userID) {
		respond(w, http.StatusForbidden, "Access denied", nil)
		return
	}
	cart, err := s.store.Cart(userID)
	if errors.Is(err, errNotFound) {
		respond(w, http.StatusNotFound, "Cart not found", nil)
		return
	}
	respond(w, http.StatusOK, "Cart fetched", cart)
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok || !owns(r, userID) {
		respond(w, http.StatusForbidden, "Access denied", nil)
		return
	}
	productID, ok := pathID(r, "productId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid product id", nil)
		return
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil || quantity < 1 {
		respond(w, http.StatusBadRequest, "Quantity must be at least 1", nil)
		return
	}

	cart, err := s.store.AddToCart(userID, productID, quantity)
	if errors.Is(err, errNotFound) {
		respond(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	respond(w, http.StatusOK, "Item added to cart", cart)
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid item id", nil)
		return
	}
	owner, ok := s.store.CartItemOwner(itemID)
	if !ok {
		respond(w, http.StatusNotFound, "Cart item not found", nil)
		return
	}
	if !owns(r, owner) {
		respond(w, http.StatusForbidden, "Access denied", nil)
		return
	}
	if err := s.store.RemoveCartItem(itemID); err != nil {
		respond(w, http.StatusNotFound, "Cart item not found", nil)
		return
	}
	respond(w, http.StatusOK, "Item removed from cart", nil)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok || !owns(r, userID) {
		respond(w, http.StatusForbidden, "Access denied", nil)
		return
	}
	s.store.ClearCart(userID)
	respond(w, http.StatusOK, "Cart cleared", nil)
}
