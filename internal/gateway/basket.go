package gateway

import (
	"context"
	"fmt"

	"github.com/morislaflame/clo-client/internal/domain"
)

// BasketAPI defines the remote basket endpoints the reconciliation engine
// consumes. Consumers define this interface, not the HTTP implementation.
type BasketAPI interface {
	Fetch(ctx context.Context) ([]domain.BasketLine, domain.BasketSummary, error)
	Count(ctx context.Context) (int, error)
	Check(ctx context.Context, productID int64) (bool, *domain.BasketLine, error)
	Add(ctx context.Context, productID int64, colorID, sizeID *int64) (*domain.BasketLine, string, error)
	Remove(ctx context.Context, basketItemID int64) error
	UpdateQuantity(ctx context.Context, basketItemID int64, quantity int) (*domain.BasketLine, error)
	Clear(ctx context.Context) (int, error)
}

type BasketGateway struct {
	client *Client
}

func NewBasketGateway(client *Client) *BasketGateway {
	return &BasketGateway{client: client}
}

type fetchBasketResponse struct {
	Items   []domain.BasketLine  `json:"items"`
	Summary domain.BasketSummary `json:"summary"`
}

type addItemRequest struct {
	ProductID       int64  `json:"productId"`
	SelectedColorID *int64 `json:"selectedColorId,omitempty"`
	SelectedSizeID  *int64 `json:"selectedSizeId,omitempty"`
}

type itemResponse struct {
	Message string             `json:"message"`
	Item    *domain.BasketLine `json:"item"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (g *BasketGateway) Fetch(ctx context.Context) ([]domain.BasketLine, domain.BasketSummary, error) {
	var resp fetchBasketResponse
	if err := g.client.get(ctx, "api/basket", &resp); err != nil {
		return nil, domain.BasketSummary{}, err
	}
	return resp.Items, resp.Summary, nil
}

func (g *BasketGateway) Count(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := g.client.get(ctx, "api/basket/count", &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (g *BasketGateway) Check(ctx context.Context, productID int64) (bool, *domain.BasketLine, error) {
	var resp struct {
		InBasket bool               `json:"inBasket"`
		Item     *domain.BasketLine `json:"item"`
	}
	if err := g.client.get(ctx, fmt.Sprintf("api/basket/check/%d", productID), &resp); err != nil {
		return false, nil, err
	}
	return resp.InBasket, resp.Item, nil
}

func (g *BasketGateway) Add(ctx context.Context, productID int64, colorID, sizeID *int64) (*domain.BasketLine, string, error) {
	req := addItemRequest{ProductID: productID, SelectedColorID: colorID, SelectedSizeID: sizeID}
	var resp itemResponse
	if err := g.client.post(ctx, "api/basket/add", req, &resp); err != nil {
		return nil, "", err
	}
	if resp.Item == nil {
		return nil, "", fmt.Errorf("basket add confirmation has no item: %w", ErrMalformedResponse)
	}
	return resp.Item, resp.Message, nil
}

func (g *BasketGateway) Remove(ctx context.Context, basketItemID int64) error {
	var resp struct {
		Message string `json:"message"`
	}
	return g.client.delete(ctx, fmt.Sprintf("api/basket/remove/%d", basketItemID), &resp)
}

func (g *BasketGateway) UpdateQuantity(ctx context.Context, basketItemID int64, quantity int) (*domain.BasketLine, error) {
	var resp itemResponse
	err := g.client.patch(ctx, fmt.Sprintf("api/basket/update/%d", basketItemID), updateQuantityRequest{Quantity: quantity}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Item == nil {
		return nil, fmt.Errorf("quantity update confirmation has no item: %w", ErrMalformedResponse)
	}
	return resp.Item, nil
}

func (g *BasketGateway) Clear(ctx context.Context) (int, error) {
	var resp struct {
		Message      string `json:"message"`
		DeletedItems int    `json:"deletedItems"`
	}
	if err := g.client.delete(ctx, "api/basket/clear", &resp); err != nil {
		return 0, err
	}
	return resp.DeletedItems, nil
}
