package models

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentRazorpay       PaymentMethod = "razorpay"
)

type ShippingAddress struct {
	FullName string `json:"fullName"`
	Mobile   string `json:"mobile"`
	HouseNo  string `json:"houseNo"`
	Area     string `json:"area"`
	City     string `json:"city"`
	State    string `json:"state"`
	PinCode  string `json:"pinCode"`
	Landmark string `json:"landmark,omitempty"`
	Country  string `json:"country"`
}

type OrderItemRequest struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderRequest struct {
	UserID          int64              `json:"userId"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   PaymentMethod      `json:"paymentMethod"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
}

type OrderItem struct {
	ID       int64           `json:"id"`
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Order is the server's authoritative order record.
type Order struct {
	ID              int64            `json:"id"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	OrderedAt       Timestamp        `json:"orderedAt"`
	OrderStatus     OrderStatus      `json:"orderStatus"`
	Items           []OrderItem      `json:"items"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod,omitempty"`
	User            *User            `json:"user,omitempty"`
}

type OrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
