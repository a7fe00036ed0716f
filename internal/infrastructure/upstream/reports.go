package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
)

const dateParam = "2006-01-02"

// CashCut asks the backend for the aggregated cash cut. Empty filters are
// left out of the query string.
func (c *Client) CashCut(ctx context.Context, session entity.Session, filter entity.CashCutFilter) ([]entity.CashCutRow, error) {
	q := url.Values{}
	if filter.From != nil {
		q.Set("desde", filter.From.Format(dateParam))
	}
	if filter.To != nil {
		q.Set("hasta", filter.To.Format(dateParam))
	}
	if filter.PaymentMethod != nil {
		q.Set("forma_pago", filter.PaymentMethod.String())
	}
	if filter.UserID != nil {
		q.Set("usuario_id", strconv.FormatInt(*filter.UserID, 10))
	}

	var dtos []cashCutRowDTO
	if err := c.do(ctx, session, http.MethodGet, "/reportes/corte-caja", "/reportes/corte-caja", q, nil, &dtos); err != nil {
		return nil, err
	}

	rows := make([]entity.CashCutRow, 0, len(dtos))
	for _, d := range dtos {
		rows = append(rows, d.toEntity())
	}
	return rows, nil
}

func (c *Client) ListMarginRanges(ctx context.Context, session entity.Session) ([]entity.MarginRange, error) {
	var dtos []marginRangeDTO
	if err := c.do(ctx, session, http.MethodGet, "/rangos", "/rangos", nil, nil, &dtos); err != nil {
		return nil, err
	}

	out := make([]entity.MarginRange, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toEntity())
	}
	return out, nil
}

func (c *Client) CreateMarginRange(ctx context.Context, session entity.Session, r entity.MarginRange) (*entity.MarginRange, error) {
	var dto marginRangeDTO
	if err := c.do(ctx, session, http.MethodPost, "/rangos", "/rangos", nil, newMarginRangeBody(r), &dto); err != nil {
		return nil, err
	}
	created := dto.toEntity()
	return &created, nil
}

func (c *Client) UpdateMarginRange(ctx context.Context, session entity.Session, r entity.MarginRange) (*entity.MarginRange, error) {
	var dto marginRangeDTO
	path := fmt.Sprintf("/rangos/%d", r.ID)
	if err := c.do(ctx, session, http.MethodPut, "/rangos/:id", path, nil, newMarginRangeBody(r), &dto); err != nil {
		return nil, err
	}
	updated := dto.toEntity()
	if updated.ID == 0 {
		updated.ID = r.ID
	}
	return &updated, nil
}

func (c *Client) DeleteMarginRange(ctx context.Context, session entity.Session, id int64) error {
	path := fmt.Sprintf("/rangos/%d", id)
	return c.do(ctx, session, http.MethodDelete, "/rangos/:id", path, nil, nil, nil)
}
