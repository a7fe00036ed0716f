package request

import (
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MarginRangeRequest creates or replaces a margin band. A missing max means
// the band is open ended.
type MarginRangeRequest struct {
	Min        decimal.Decimal  `json:"min"`
	Max        *decimal.Decimal `json:"max"`
	Percentage decimal.Decimal  `json:"percentage"`
}

func (r MarginRangeRequest) ToEntity(id int64) entity.MarginRange {
	return entity.MarginRange{ID: id, Min: r.Min, Max: r.Max, Percentage: r.Percentage}
}

// SuggestPriceQuery asks for the sale price of a purchase cost.
type SuggestPriceQuery struct {
	Cost string `form:"cost" binding:"required"`
}
