package services

import (
	"context"
	"fmt"
	"strings"

	"ecomstore/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const ShippingCountry = "IN"

var (
	FreeShippingOver = decimal.NewFromInt(500)
	ShippingFee      = decimal.NewFromInt(49)
	GSTRate          = decimal.RequireFromString("0.18")
)

type CheckoutForm struct {
	FullName      string               `json:"fullName" validate:"required"`
	Mobile        string               `json:"mobile" validate:"required,in_mobile"`
	HouseNo       string               `json:"houseNo" validate:"required"`
	Area          string               `json:"area" validate:"required"`
	City          string               `json:"city" validate:"required"`
	State         string               `json:"state" validate:"required"`
	PinCode       string               `json:"pinCode" validate:"required,in_pincode"`
	Landmark      string               `json:"landmark,omitempty"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=cod razorpay"`
}

// PriceSummary is shown before the order is placed. The server prices the
// order itself.
type PriceSummary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	GST      decimal.Decimal `json:"gst"`
	Total    decimal.Decimal `json:"total"`
}

func QuotePrice(subtotal decimal.Decimal) PriceSummary {
	shipping := ShippingFee
	if subtotal.GreaterThan(FreeShippingOver) {
		shipping = decimal.Zero
	}
	gst := subtotal.Mul(GSTRate)
	return PriceSummary{
		Subtotal: subtotal,
		Shipping: shipping,
		GST:      gst,
		Total:    subtotal.Add(shipping).Add(gst),
	}
}

// PaymentIntent hands a placed order to the payment step. It lives only as
// long as the caller keeps it.
type PaymentIntent struct {
	Order  *models.Order        `json:"order"`
	Method models.PaymentMethod `json:"method"`
}

type CheckoutCart interface {
	Snapshot() CartSnapshot
	Clear(ctx context.Context) error
}

type OrderPlacer interface {
	Place(ctx context.Context, req models.OrderRequest) (*models.Order, error)
}

type CheckoutService struct {
	session  SessionUser
	cart     CheckoutCart
	orders   OrderPlacer
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewCheckoutService(session SessionUser, cart CheckoutCart, orders OrderPlacer, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		session:  session,
		cart:     cart,
		orders:   orders,
		validate: newValidator(),
		logger:   logger,
	}
}

func (s *CheckoutService) Validate(form CheckoutForm) error {
	form = normalizeForm(form)
	if err := s.validate.Struct(form); err != nil {
		return toValidationError(err)
	}
	return nil
}

// Quote prices the current cart.
func (s *CheckoutService) Quote() PriceSummary {
	return QuotePrice(s.cart.Snapshot().Total)
}

// PlaceOrder validates the form, submits the cart as an order and clears
// the cart. A failure to clear is logged and does not fail the checkout.
func (s *CheckoutService) PlaceOrder(ctx context.Context, form CheckoutForm) (*PaymentIntent, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	cart := s.cart.Snapshot()
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	form = normalizeForm(form)
	if err := s.validate.Struct(form); err != nil {
		return nil, toValidationError(err)
	}

	req := BuildOrderRequest(user.ID, cart, form)
	order, err := s.orders.Place(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("checkout failed: %w", err)
	}

	if err := s.cart.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Int64("order_id", order.ID).Msg("Order placed but cart could not be cleared")
	}
	return &PaymentIntent{Order: order, Method: form.PaymentMethod}, nil
}

// BuildOrderRequest snapshots cart lines at their listed prices.
func BuildOrderRequest(userID int64, cart CartSnapshot, form CheckoutForm) models.OrderRequest {
	items := make([]models.OrderItemRequest, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.OrderItemRequest{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
	}
	return models.OrderRequest{
		UserID: userID,
		Items:  items,
		ShippingAddress: models.ShippingAddress{
			FullName: form.FullName,
			Mobile:   form.Mobile,
			HouseNo:  form.HouseNo,
			Area:     form.Area,
			City:     form.City,
			State:    form.State,
			PinCode:  form.PinCode,
			Landmark: form.Landmark,
			Country:  ShippingCountry,
		},
		PaymentMethod: form.PaymentMethod,
		TotalAmount:   QuotePrice(cart.Total).Total,
	}
}

func normalizeForm(f CheckoutForm) CheckoutForm {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Mobile = strings.TrimSpace(f.Mobile)
	f.HouseNo = strings.TrimSpace(f.HouseNo)
	f.Area = strings.TrimSpace(f.Area)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.PinCode = strings.TrimSpace(f.PinCode)
	f.Landmark = strings.TrimSpace(f.Landmark)
	return f
}
