package services

import (
	"context"
	"fmt"
	"sync"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CartState string

const (
	CartEmpty   CartState = "empty"
	CartLoading CartState = "loading"
	CartReady   CartState = "ready"
	CartError   CartState = "error"
)

type CartSnapshot struct {
	State     CartState         `json:"state"`
	Items     []models.CartItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"itemCount"`
	Busy      bool              `json:"busy"`
	Error     string            `json:"error,omitempty"`
}

// SessionUser yields the signed-in user, or nil.
type SessionUser interface {
	CurrentUser() *models.User
}

type CartOption func(*CartStore)

// WithRetry sets the backoff used to re-add a line during SetItemQuantity.
func WithRetry(cfg RetryConfig) CartOption {
	return func(s *CartStore) {
		s.retry = cfg
	}
}

// CartStore mirrors the server cart of the signed-in user. Every mutation
// is followed by a refetch except Clear; the server owns totals.
type CartStore struct {
	api     *apiclient.Client
	session SessionUser
	logger  zerolog.Logger
	retry   RetryConfig

	mu       sync.RWMutex
	state    CartState
	items    []models.CartItem
	total    decimal.Decimal
	inFlight int
	errMsg   string
}

func NewCartStore(api *apiclient.Client, session SessionUser, logger zerolog.Logger, opts ...CartOption) *CartStore {
	s := &CartStore{
		api:     api,
		session: session,
		logger:  logger,
		retry:   DefaultRetryConfig(),
		state:   CartEmpty,
		total:   decimal.Zero,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnAuthChange keeps the cart in step with the session.
func (s *CartStore) OnAuthChange(ctx context.Context, snap AuthSnapshot) {
	switch snap.State {
	case AuthAuthenticated:
		if err := s.Fetch(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to load cart after sign in")
		}
	case AuthAnonymous:
		s.Reset()
	}
}

// Fetch replaces local state with the server cart. A missing cart is an
// empty cart.
func (s *CartStore) Fetch(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return nil
	}

	s.begin(true)
	defer s.end()

	var cart models.Cart
	_, err := s.api.Get(ctx, fmt.Sprintf("/api/cart/cart-details/%d", user.ID), &cart)
	if apiclient.IsNotFound(err) {
		s.apply(models.Cart{})
		return nil
	}
	if err != nil {
		s.fail(err, "Failed to load cart")
		return fmt.Errorf("failed to fetch cart: %w", err)
	}
	s.apply(cart)
	return nil
}

func (s *CartStore) AddItem(ctx context.Context, productID int64, quantity int) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.begin(false)
	defer s.end()

	if err := s.add(ctx, user.ID, productID, quantity); err != nil {
		s.fail(err, "Failed to add item to cart")
		return fmt.Errorf("failed to add product %d to cart: %w", productID, err)
	}
	return s.Fetch(ctx)
}

func (s *CartStore) RemoveItem(ctx context.Context, itemID int64) error {
	if s.session.CurrentUser() == nil {
		return ErrNotAuthenticated
	}

	s.begin(false)
	defer s.end()

	if err := s.remove(ctx, itemID); err != nil {
		s.fail(err, "Failed to remove item from cart")
		return fmt.Errorf("failed to remove cart item %d: %w", itemID, err)
	}
	return s.Fetch(ctx)
}

// SetItemQuantity removes the line and re-adds the product with quantity.
// The server has no atomic update, so a failed re-add is retried; when it
// still fails an *IncompleteUpdateError is returned with the cart refetched.
func (s *CartStore) SetItemQuantity(ctx context.Context, itemID, productID int64, quantity int) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	s.begin(false)
	defer s.end()

	if err := s.remove(ctx, itemID); err != nil {
		s.fail(err, "Failed to update quantity")
		return fmt.Errorf("failed to remove cart item %d: %w", itemID, err)
	}
	if quantity == 0 {
		return s.Fetch(ctx)
	}

	err := Retry(ctx, s.retry, func() error {
		return s.add(ctx, user.ID, productID, quantity)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("item_id", itemID).Int64("product_id", productID).
			Int("quantity", quantity).Msg("Cart line removed but re-add failed")
		incomplete := &IncompleteUpdateError{ItemID: itemID, ProductID: productID, Quantity: quantity, Err: err}
		if fetchErr := s.Fetch(ctx); fetchErr != nil {
			s.logger.Warn().Err(fetchErr).Msg("Failed to refetch cart after incomplete update")
		}
		s.fail(err, "Item was removed but could not be re-added")
		return incomplete
	}
	return s.Fetch(ctx)
}

// Clear empties the server cart and resets local state without a refetch.
func (s *CartStore) Clear(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	s.begin(false)
	defer s.end()

	if _, err := s.api.Delete(ctx, fmt.Sprintf("/api/cart/%d/clear-cart", user.ID), nil); err != nil {
		s.fail(err, "Failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.apply(models.Cart{})
	return nil
}

// Reset drops local state only.
func (s *CartStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = CartEmpty
	s.items = nil
	s.total = decimal.Zero
	s.errMsg = ""
}

func (s *CartStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countItems(s.items)
}

// Total is the last server-reported total.
func (s *CartStore) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

func (s *CartStore) Snapshot() CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CartSnapshot{
		State:     s.state,
		Items:     append([]models.CartItem{}, s.items...),
		Total:     s.total,
		ItemCount: countItems(s.items),
		Busy:      s.inFlight > 0,
		Error:     s.errMsg,
	}
}

func (s *CartStore) add(ctx context.Context, userID, productID int64, quantity int) error {
	_, err := s.api.Post(ctx, fmt.Sprintf("/api/cart/%d/add-to-cart/%d?quantity=%d", userID, productID, quantity), nil, nil)
	return err
}

func (s *CartStore) remove(ctx context.Context, itemID int64) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("/api/cart/remove-item/%d", itemID), nil)
	return err
}

func (s *CartStore) begin(fetch bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
	if fetch && len(s.items) == 0 {
		s.state = CartLoading
	}
}

func (s *CartStore) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
}

func (s *CartStore) apply(cart models.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.CartItem{}, cart.Items...)
	s.total = cart.TotalAmount
	s.errMsg = ""
	if len(s.items) == 0 {
		s.state = CartEmpty
		s.total = decimal.Zero
		return
	}
	s.state = CartReady
}

// fail records err unless the session ended while the call was in flight.
func (s *CartStore) fail(err error, fallback string) {
	if s.session.CurrentUser() == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = CartError
	s.errMsg = apiclient.Message(err, fallback)
}

func countItems(items []models.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
