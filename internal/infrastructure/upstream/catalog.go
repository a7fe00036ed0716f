package upstream

import (
	"context"
	"net/http"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
)

// ListProducts fetches the whole catalog.
func (c *Client) ListProducts(ctx context.Context, session entity.Session) ([]entity.Product, error) {
	var dtos []productDTO
	if err := c.do(ctx, session, http.MethodGet, "/productos", "/productos", nil, nil, &dtos); err != nil {
		return nil, err
	}

	products := make([]entity.Product, 0, len(dtos))
	for _, d := range dtos {
		products = append(products, d.toEntity())
	}
	return products, nil
}
