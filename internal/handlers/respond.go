package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/payment"
	"ecomstore/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	respondWithJSON(w, code, errorBody{Error: errorCode, Message: message})
}

// respondWithServiceError maps store and backend errors onto console
// responses. Backend statuses are passed through.
func respondWithServiceError(w http.ResponseWriter, logger zerolog.Logger, err error, fallback string) {
	var verr *services.ValidationError
	var incomplete *services.IncompleteUpdateError
	var apiErr *apiclient.APIError

	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:   "validation_failed",
			Message: "Please correct the highlighted fields",
			Fields:  verr.Fields,
		})
	case errors.Is(err, services.ErrNotAuthenticated):
		respondWithError(w, http.StatusUnauthorized, "not_authenticated", "Please sign in to continue")
	case errors.Is(err, services.ErrEmptyCart):
		respondWithError(w, http.StatusBadRequest, "empty_cart", "Your cart is empty")
	case errors.Is(err, services.ErrInvalidQuantity):
		respondWithError(w, http.StatusBadRequest, "invalid_quantity", "Quantity must be at least 1")
	case errors.Is(err, services.ErrTooManyImages):
		respondWithError(w, http.StatusBadRequest, "too_many_images", "A product can have at most 5 images")
	case errors.Is(err, payment.ErrUnsupportedMethod):
		respondWithError(w, http.StatusBadRequest, "unsupported_payment_method", "Payment method is not supported")
	case errors.As(err, &incomplete):
		respondWithError(w, http.StatusConflict, "incomplete_update", "The item was removed but could not be re-added. Please add it again.")
	case errors.As(err, &apiErr):
		code := apiErr.StatusCode
		if code == 0 {
			code = http.StatusBadGateway
		}
		logger.Warn().Err(err).Int("status", code).Msg(fallback)
		respondWithError(w, code, "backend_error", apiclient.Message(err, fallback))
	default:
		logger.Error().Err(err).Msg(fallback)
		respondWithError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil && id > 0
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return false
	}
	return true
}
