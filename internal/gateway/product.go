package gateway

import (
	"context"
	"fmt"

	"github.com/morislaflame/clo-client/internal/domain"
)

// ProductAPI fetches the product snapshot captured when a line is added.
type ProductAPI interface {
	GetByID(ctx context.Context, productID int64) (domain.ProductSnapshot, error)
}

type ProductGateway struct {
	client *Client
}

func NewProductGateway(client *Client) *ProductGateway {
	return &ProductGateway{client: client}
}

func (g *ProductGateway) GetByID(ctx context.Context, productID int64) (domain.ProductSnapshot, error) {
	var resp struct {
		Product domain.ProductSnapshot `json:"product"`
	}
	if err := g.client.get(ctx, fmt.Sprintf("api/product/%d", productID), &resp); err != nil {
		return domain.ProductSnapshot{}, err
	}
	return resp.Product, nil
}
