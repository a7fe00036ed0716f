package repository

import (
	"context"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
)

// ReportGateway exposes the backend's aggregated reports.
type ReportGateway interface {
	CashCut(ctx context.Context, session entity.Session, filter entity.CashCutFilter) ([]entity.CashCutRow, error)
}

// MarginGateway reads the markup bands used to suggest sale prices.
type MarginGateway interface {
	ListMarginRanges(ctx context.Context, session entity.Session) ([]entity.MarginRange, error)
	CreateMarginRange(ctx context.Context, session entity.Session, r entity.MarginRange) (*entity.MarginRange, error)
	UpdateMarginRange(ctx context.Context, session entity.Session, r entity.MarginRange) (*entity.MarginRange, error)
	DeleteMarginRange(ctx context.Context, session entity.Session, id int64) error
}
