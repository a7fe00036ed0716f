package repository

import (
	"context"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
)

// QuotationGateway stores quotations on the backend.
type QuotationGateway interface {
	CreateQuotation(ctx context.Context, session entity.Session, req entity.QuotationRequest) (int64, error)
	UpdateQuotation(ctx context.Context, session entity.Session, id int64, req entity.QuotationRequest) error
	GetQuotation(ctx context.Context, session entity.Session, id int64) (*entity.Quotation, error)
	ListQuotations(ctx context.Context, session entity.Session) ([]entity.QuotationSummary, error)
	DeleteQuotation(ctx context.Context, session entity.Session, id int64) error
}
