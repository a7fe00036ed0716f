package entity

import (
	"strconv"
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/climasgama/pos-terminal/pkg/textnorm"
	"github.com/shopspring/decimal"
)

// SaleLine is the backend's canonical copy of a sold line.
type SaleLine struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Sale is a committed sale as rebuilt from the backend after submission.
type Sale struct {
	ID            int64              `json:"id"`
	Date          time.Time          `json:"date"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Seller        string             `json:"seller"`
	Lines         []SaleLine         `json:"lines"`
}

func (s *Sale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// SaleSummary is one row of the sale history.
type SaleSummary struct {
	ID            int64              `json:"id"`
	Date          time.Time          `json:"date"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	User          string             `json:"user"`
}

// SaleRequest is what gets committed upstream.
type SaleRequest struct {
	PaymentMethod enum.PaymentMethod
	UserID        int64
	Items         []SaleItem
}

type SaleItem struct {
	ProductID int64
	Quantity  int
}

// NewSaleRequest takes product ids and quantities only; the backend prices
// the sale itself.
func NewSaleRequest(c *Cart, userID int64) SaleRequest {
	items := make([]SaleItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, SaleItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return SaleRequest{PaymentMethod: c.PaymentMethod, UserID: userID, Items: items}
}

// SaleHistoryFilter narrows the sale history. Zero values mean no filter.
type SaleHistoryFilter struct {
	Search        string
	PaymentMethod *enum.PaymentMethod
	From          *time.Time
	To            *time.Time
}

// Matches applies the filter to one summary. To is inclusive of the whole day.
func (f SaleHistoryFilter) Matches(s SaleSummary) bool {
	if f.PaymentMethod != nil && s.PaymentMethod != *f.PaymentMethod {
		return false
	}
	if f.From != nil && s.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && !s.Date.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	return textnorm.MatchesAll(textnorm.Join(strconv.FormatInt(s.ID, 10), s.User, s.PaymentMethod.String()), f.Search)
}
