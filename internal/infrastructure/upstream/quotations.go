package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
)

func (c *Client) CreateQuotation(ctx context.Context, session entity.Session, req entity.QuotationRequest) (int64, error) {
	var resp createQuotationResponseDTO
	if err := c.do(ctx, session, http.MethodPost, "/cotizaciones", "/cotizaciones", nil, newQuotationRequestDTO(req), &resp); err != nil {
		return 0, err
	}
	if resp.QuotationID <= 0 {
		return 0, errors.New("backend accepted the quotation without returning its id")
	}
	return int64(resp.QuotationID), nil
}

func (c *Client) UpdateQuotation(ctx context.Context, session entity.Session, id int64, req entity.QuotationRequest) error {
	path := fmt.Sprintf("/cotizaciones/%d", id)
	return c.do(ctx, session, http.MethodPut, "/cotizaciones/:id", path, nil, newQuotationRequestDTO(req), nil)
}

func (c *Client) GetQuotation(ctx context.Context, session entity.Session, id int64) (*entity.Quotation, error) {
	var dto quotationDTO
	path := fmt.Sprintf("/cotizaciones/%d", id)
	if err := c.do(ctx, session, http.MethodGet, "/cotizaciones/:id", path, nil, nil, &dto); err != nil {
		return nil, err
	}
	q := dto.toEntity()
	if q.ID == 0 {
		q.ID = id
	}
	return q, nil
}

func (c *Client) ListQuotations(ctx context.Context, session entity.Session) ([]entity.QuotationSummary, error) {
	var dtos []quotationDTO
	if err := c.do(ctx, session, http.MethodGet, "/cotizaciones", "/cotizaciones", nil, nil, &dtos); err != nil {
		return nil, err
	}

	out := make([]entity.QuotationSummary, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toSummary())
	}
	return out, nil
}

func (c *Client) DeleteQuotation(ctx context.Context, session entity.Session, id int64) error {
	path := fmt.Sprintf("/cotizaciones/%d", id)
	return c.do(ctx, session, http.MethodDelete, "/cotizaciones/:id", path, nil, nil, nil)
}
