package gateway

import (
	"context"
	"fmt"

	"github.com/morislaflame/clo-client/internal/domain"
)

// OrderAPI defines the remote order endpoints the submission engine consumes.
type OrderAPI interface {
	Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, string, error)
	CreateGuest(ctx context.Context, req GuestOrderRequest) (*domain.Order, string, error)
	ListMine(ctx context.Context) ([]domain.Order, error)
	CancelMine(ctx context.Context, orderID int64) (*domain.Order, error)
}

// CreateOrderRequest carries recipient and payment fields only: for an
// authenticated order the server derives the items from its own basket.
type CreateOrderRequest struct {
	RecipientName  string               `json:"recipientName"`
	RecipientPhone string               `json:"recipientPhone,omitempty"`
	RecipientEmail string               `json:"recipientEmail,omitempty"`
	Address        string               `json:"address,omitempty"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod"`
}

// GuestOrderRequest additionally inlines the checkout snapshot, since the
// server holds no basket for a guest.
type GuestOrderRequest struct {
	CreateOrderRequest
	Items    []domain.CheckoutItem `json:"items"`
	TotalKZT float64               `json:"totalKZT"`
	TotalUSD float64               `json:"totalUSD"`
}

type OrderGateway struct {
	client *Client
}

func NewOrderGateway(client *Client) *OrderGateway {
	return &OrderGateway{client: client}
}

type orderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

func (g *OrderGateway) Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, string, error) {
	var resp orderResponse
	if err := g.client.post(ctx, "api/order/create", req, &resp); err != nil {
		return nil, "", err
	}
	if resp.Order == nil {
		return nil, "", fmt.Errorf("order confirmation has no order: %w", ErrMalformedResponse)
	}
	return resp.Order, resp.Message, nil
}

func (g *OrderGateway) CreateGuest(ctx context.Context, req GuestOrderRequest) (*domain.Order, string, error) {
	var resp orderResponse
	if err := g.client.post(ctx, "api/order/guest", req, &resp); err != nil {
		return nil, "", err
	}
	if resp.Order == nil {
		return nil, "", fmt.Errorf("order confirmation has no order: %w", ErrMalformedResponse)
	}
	return resp.Order, resp.Message, nil
}

func (g *OrderGateway) ListMine(ctx context.Context) ([]domain.Order, error) {
	var resp struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := g.client.get(ctx, "api/order/my-orders", &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (g *OrderGateway) CancelMine(ctx context.Context, orderID int64) (*domain.Order, error) {
	var resp orderResponse
	if err := g.client.patch(ctx, fmt.Sprintf("api/order/my-orders/%d/cancel", orderID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, fmt.Errorf("cancel confirmation has no order: %w", ErrMalformedResponse)
	}
	return resp.Order, nil
}
