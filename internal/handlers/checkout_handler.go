package handlers

import (
	"context"
	"net/http"

	"ecomstore/internal/currency"
	"ecomstore/internal/models"
	"ecomstore/internal/payment"
	"ecomstore/internal/services"

	"github.com/rs/zerolog"
)

// PaymentProcessor settles a placed order.
type PaymentProcessor interface {
	Process(ctx context.Context, method models.PaymentMethod, order *models.Order) (payment.Outcome, error)
}

type CheckoutHandler struct {
	checkout *services.CheckoutService
	payments PaymentProcessor
	logger   zerolog.Logger
}

func NewCheckoutHandler(checkout *services.CheckoutService, payments PaymentProcessor, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, payments: payments, logger: logger}
}

type quoteResponse struct {
	services.PriceSummary
	Formatted map[string]string `json:"formatted"`
}

type checkoutResponse struct {
	Order   *models.Order   `json:"order"`
	Payment payment.Outcome `json:"payment"`
}

func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := h.checkout.Quote()
	respondWithJSON(w, http.StatusOK, quoteResponse{
		PriceSummary: q,
		Formatted: map[string]string{
			"subtotal": currency.FormatPrice(q.Subtotal),
			"shipping": currency.FormatPrice(q.Shipping),
			"gst":      currency.FormatPrice(q.GST),
			"total":    currency.FormatPrice(q.Total),
		},
	})
}

// Checkout places the order and runs payment. A declined payment still
// answers 201 because the order exists; the outcome says what happened.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var form services.CheckoutForm
	if !decodeJSON(w, r, &form) {
		return
	}

	intent, err := h.checkout.PlaceOrder(r.Context(), form)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to place order")
		return
	}

	outcome, err := h.payments.Process(r.Context(), intent.Method, intent.Order)
	if err != nil {
		h.logger.Error().Err(err).Int64("order_id", intent.Order.ID).Msg("Payment could not be completed")
		if outcome.Status == "" {
			outcome = payment.Outcome{Status: payment.StatusFailed, Method: intent.Method, OrderID: intent.Order.ID}
		}
		outcome.Message = "Payment could not be completed"
	}
	respondWithJSON(w, http.StatusCreated, checkoutResponse{Order: intent.Order, Payment: outcome})
}
