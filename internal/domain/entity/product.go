package entity

import (
	"github.com/climasgama/pos-terminal/pkg/textnorm"
	"github.com/shopspring/decimal"
)

// Product is a read-only snapshot of a catalog entry owned by the backend.
type Product struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Barcode       string          `json:"barcode,omitempty"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	StockQuantity int             `json:"stock_quantity"`
	MissingStock  int             `json:"missing_stock"`
	Location      string          `json:"location,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
}

// SearchText is the haystack used by every product search box.
func (p Product) SearchText() string {
	return textnorm.Join(p.Code, p.Barcode, p.Description)
}

// MatchesCode reports an exact, accent and case insensitive hit on code or barcode.
func (p Product) MatchesCode(token string) bool {
	t := textnorm.Normalize(token)
	if t == "" {
		return false
	}
	return textnorm.Normalize(p.Code) == t || (p.Barcode != "" && textnorm.Normalize(p.Barcode) == t)
}

// IsLowStock means there is stock left but the backend reports units missing
// to reach the desired level.
func (p Product) IsLowStock() bool {
	return p.StockQuantity > 0 && p.MissingStock > 0
}

func (p Product) IsOutOfStock() bool {
	return p.StockQuantity == 0
}
