package services

import (
	"context"
	"errors"
	"testing"

	"ecomstore/internal/mockapi"
	"ecomstore/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() CheckoutForm {
	return CheckoutForm{
		FullName:      "Asha Rao",
		Mobile:        "9876543210",
		HouseNo:       "12B",
		Area:          "MG Road",
		City:          "Bengaluru",
		State:         "Karnataka",
		PinCode:       "560001",
		PaymentMethod: models.PaymentCashOnDelivery,
	}
}

func TestQuotePrice(t *testing.T) {
	tests := []struct {
		subtotal string
		shipping string
		total    string
	}{
		{"400", "49", "521"},
		{"500", "49", "639"},
		{"1000", "0", "1180"},
		{"0", "49", "49"},
	}
	for _, tt := range tests {
		t.Run(tt.subtotal, func(t *testing.T) {
			q := QuotePrice(decimal.RequireFromString(tt.subtotal))
			assert.True(t, decimal.RequireFromString(tt.shipping).Equal(q.Shipping), q.Shipping.String())
			assert.True(t, decimal.RequireFromString(tt.total).Equal(q.Total), q.Total.String())
		})
	}
}

func TestCheckoutValidate(t *testing.T) {
	svc := NewCheckoutService(nil, nil, nil, zerolog.Nop())

	assert.NoError(t, svc.Validate(validForm()))

	tests := []struct {
		name  string
		edit  func(*CheckoutForm)
		field string
	}{
		{"mobile too short", func(f *CheckoutForm) { f.Mobile = "98765" }, "mobile"},
		{"mobile bad prefix", func(f *CheckoutForm) { f.Mobile = "5876543210" }, "mobile"},
		{"pin leading zero", func(f *CheckoutForm) { f.PinCode = "060001" }, "pinCode"},
		{"pin letters", func(f *CheckoutForm) { f.PinCode = "56OO01" }, "pinCode"},
		{"missing city", func(f *CheckoutForm) { f.City = "  " }, "city"},
		{"unknown method", func(f *CheckoutForm) { f.PaymentMethod = "bitcoin" }, "paymentMethod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(&form)
			err := svc.Validate(form)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestCheckoutPlaceOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orders := NewOrderService(f.api, zerolog.Nop())
	svc := NewCheckoutService(f.auth, f.cart, orders, zerolog.Nop())

	_, err := svc.PlaceOrder(ctx, validForm())
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	f.signIn(t, mockapi.DemoCustomerEmail)
	_, err = svc.PlaceOrder(ctx, validForm())
	assert.ErrorIs(t, err, ErrEmptyCart)

	require.NoError(t, f.cart.AddItem(ctx, 1, 2))

	bad := validForm()
	bad.Mobile = "123"
	_, err = svc.PlaceOrder(ctx, bad)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, f.backend.Calls("POST", "/api/orders/place-order"))

	intent, err := svc.PlaceOrder(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCashOnDelivery, intent.Method)
	assert.Equal(t, models.OrderStatusPending, intent.Order.OrderStatus)
	require.NotNil(t, intent.Order.ShippingAddress)
	assert.Equal(t, ShippingCountry, intent.Order.ShippingAddress.Country)
	assert.Equal(t, CartEmpty, f.cart.Snapshot().State)
}

func TestBuildOrderRequest(t *testing.T) {
	cart := CartSnapshot{
		Items: []models.CartItem{
			{ID: 9, Quantity: 2, Product: models.Product{ID: 3, Price: decimal.NewFromInt(300)}},
		},
		Total: decimal.NewFromInt(600),
	}
	form := validForm()
	form.Landmark = "Near park"

	req := BuildOrderRequest(42, cart, form)
	assert.Equal(t, int64(42), req.UserID)
	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(3), req.Items[0].ProductID)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(300).Equal(req.Items[0].Price))
	assert.Equal(t, "IN", req.ShippingAddress.Country)
	assert.Equal(t, "Near park", req.ShippingAddress.Landmark)
	assert.True(t, decimal.NewFromInt(708).Equal(req.TotalAmount), req.TotalAmount.String())
}
