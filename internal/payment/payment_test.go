package payment

import (
	"context"
	"testing"
	"time"

	"ecomstore/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashOnDelivery(t *testing.T) {
	out, err := CashOnDelivery{}.InitiatePayment(context.Background(), &models.Order{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, int64(3), out.OrderID)
}

func TestSimulatedGateway(t *testing.T) {
	order := &models.Order{ID: 8}

	approve := &SimulatedGateway{Method: models.PaymentRazorpay, Approve: func(*models.Order) bool { return true }}
	out, err := approve.InitiatePayment(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Status)

	decline := &SimulatedGateway{Method: models.PaymentRazorpay, Approve: func(*models.Order) bool { return false }}
	out, err = decline.InitiatePayment(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, out.Status)
}

func TestSimulatedGatewayCancelled(t *testing.T) {
	g := &SimulatedGateway{Method: models.PaymentRazorpay, Delay: time.Hour, Approve: func(*models.Order) bool { return true }}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	out, err := g.InitiatePayment(ctx, &models.Order{ID: 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StatusPending, out.Status)
}

func TestRandomApproverBounds(t *testing.T) {
	always, never := RandomApprover(1), RandomApprover(0)
	for i := 0; i < 50; i++ {
		assert.True(t, always(nil))
		assert.False(t, never(nil))
	}
}

func TestProcessor(t *testing.T) {
	p := NewProcessor(zerolog.Nop())
	p.Register(models.PaymentCashOnDelivery, CashOnDelivery{})

	out, err := p.Process(context.Background(), models.PaymentCashOnDelivery, &models.Order{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Status)

	_, err = p.Process(context.Background(), "upi", &models.Order{ID: 1})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}
