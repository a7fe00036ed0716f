package repository

import (
	"context"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
)

// SaleGateway commits and reads sales on the backend. CreateSale is not
// idempotent upstream; callers must never retry it on their own.
type SaleGateway interface {
	CreateSale(ctx context.Context, session entity.Session, req entity.SaleRequest) (int64, error)
	GetSaleLines(ctx context.Context, session entity.Session, saleID int64) ([]entity.SaleLine, error)
	ListSales(ctx context.Context, session entity.Session) ([]entity.SaleSummary, error)
}
