// Package payment settles placed orders through pluggable providers.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"ecomstore/internal/models"

	"github.com/rs/zerolog"
)

var ErrUnsupportedMethod = errors.New("unsupported payment method")

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

type Outcome struct {
	Status  Status               `json:"status"`
	Method  models.PaymentMethod `json:"method"`
	OrderID int64                `json:"orderId"`
	Message string               `json:"message,omitempty"`
}

type Provider interface {
	InitiatePayment(ctx context.Context, order *models.Order) (Outcome, error)
}

// CashOnDelivery settles at the door, so initiating always succeeds.
type CashOnDelivery struct{}

func (CashOnDelivery) InitiatePayment(ctx context.Context, order *models.Order) (Outcome, error) {
	return Outcome{
		Status:  StatusSuccess,
		Method:  models.PaymentCashOnDelivery,
		OrderID: order.ID,
		Message: "Pay on delivery",
	}, nil
}

// Approver decides whether a simulated charge goes through.
type Approver func(order *models.Order) bool

// RandomApprover approves with probability rate.
func RandomApprover(rate float64) Approver {
	var mu sync.Mutex
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func(*models.Order) bool {
		mu.Lock()
		defer mu.Unlock()
		return rng.Float64() < rate
	}
}

// SimulatedGateway stands in for an online gateway. It waits Delay and then
// asks Approve.
type SimulatedGateway struct {
	Method  models.PaymentMethod
	Delay   time.Duration
	Approve Approver
}

func NewSimulatedGateway(method models.PaymentMethod, delay time.Duration, successRate float64) *SimulatedGateway {
	return &SimulatedGateway{Method: method, Delay: delay, Approve: RandomApprover(successRate)}
}

func (g *SimulatedGateway) InitiatePayment(ctx context.Context, order *models.Order) (Outcome, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Outcome{Status: StatusPending, Method: g.Method, OrderID: order.ID}, ctx.Err()
		case <-timer.C:
		}
	}

	out := Outcome{Method: g.Method, OrderID: order.ID}
	if g.Approve != nil && g.Approve(order) {
		out.Status = StatusSuccess
		out.Message = "Payment successful"
	} else {
		out.Status = StatusFailed
		out.Message = "Payment failed. Please try again."
	}
	return out, nil
}

// Processor routes a payment to the provider registered for its method.
type Processor struct {
	providers map[models.PaymentMethod]Provider
	logger    zerolog.Logger
}

func NewProcessor(logger zerolog.Logger) *Processor {
	return &Processor{providers: make(map[models.PaymentMethod]Provider), logger: logger}
}

func (p *Processor) Register(method models.PaymentMethod, provider Provider) {
	p.providers[method] = provider
}

func (p *Processor) Process(ctx context.Context, method models.PaymentMethod, order *models.Order) (Outcome, error) {
	provider, ok := p.providers[method]
	if !ok {
		return Outcome{Status: StatusFailed, Method: method, OrderID: order.ID}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	p.logger.Info().Int64("order_id", order.ID).Str("method", string(method)).Msg("Processing payment")
	out, err := provider.InitiatePayment(ctx, order)
	if err != nil {
		p.logger.Error().Err(err).Int64("order_id", order.ID).Msg("Payment provider error")
		return out, fmt.Errorf("payment for order %d failed: %w", order.ID, err)
	}
	p.logger.Info().Int64("order_id", order.ID).Str("status", string(out.Status)).Msg("Payment finished")
	return out, nil
}
