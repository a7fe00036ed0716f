package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/pkg/apperror"
)

// CreateSale posts the sale and returns the id assigned by the backend.
func (c *Client) CreateSale(ctx context.Context, session entity.Session, req entity.SaleRequest) (int64, error) {
	body := createSaleDTO{
		PaymentMethod: req.PaymentMethod.String(),
		Products:      lineItems(req.Items),
		UserID:        req.UserID,
	}

	var resp createSaleResponseDTO
	if err := c.do(ctx, session, http.MethodPost, "/ventas", "/ventas", nil, body, &resp); err != nil {
		return 0, err
	}
	if resp.SaleID <= 0 {
		return 0, apperror.NewSubmissionUnconfirmedError(errors.New("backend accepted the sale without returning its id"))
	}
	return int64(resp.SaleID), nil
}

// GetSaleLines returns the backend's canonical lines of a sale.
func (c *Client) GetSaleLines(ctx context.Context, session entity.Session, saleID int64) ([]entity.SaleLine, error) {
	var dtos []saleLineDTO
	path := fmt.Sprintf("/ventas/%d", saleID)
	if err := c.do(ctx, session, http.MethodGet, "/ventas/:id", path, nil, nil, &dtos); err != nil {
		return nil, err
	}

	lines := make([]entity.SaleLine, 0, len(dtos))
	for _, d := range dtos {
		lines = append(lines, d.toEntity())
	}
	return lines, nil
}

func (c *Client) ListSales(ctx context.Context, session entity.Session) ([]entity.SaleSummary, error) {
	var dtos []saleSummaryDTO
	if err := c.do(ctx, session, http.MethodGet, "/ventas", "/ventas", nil, nil, &dtos); err != nil {
		return nil, err
	}

	sales := make([]entity.SaleSummary, 0, len(dtos))
	for _, d := range dtos {
		sales = append(sales, d.toEntity())
	}
	return sales, nil
}
