package domain

import "time"

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanCancel reports whether cancellation may be requested. The server is the
// authority on the transition; this only gates the request.
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusCreated
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "CARD"
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentKaspi          PaymentMethod = "KASPI"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCashOnDelivery, PaymentKaspi:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID int64   `json:"productId"`
	ColorID   *int64  `json:"colorId,omitempty"`
	SizeID    *int64  `json:"sizeId,omitempty"`
	Quantity  int     `json:"quantity"`
	PriceKZT  float64 `json:"priceKZT"`
	PriceUSD  float64 `json:"priceUSD"`
}

// Order as returned by the backend. Lifecycle state is server-owned; the
// client only reads it and requests cancellation.
type Order struct {
	ID             int64         `json:"id"`
	UserID         int64         `json:"userId,omitempty"`
	Status         OrderStatus   `json:"status"`
	Items          []OrderItem   `json:"items"`
	TotalKZT       float64       `json:"totalKZT"`
	TotalUSD       float64       `json:"totalUSD"`
	RecipientName  string        `json:"recipientName"`
	RecipientPhone string        `json:"recipientPhone,omitempty"`
	RecipientEmail string        `json:"recipientEmail,omitempty"`
	Address        string        `json:"address,omitempty"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
