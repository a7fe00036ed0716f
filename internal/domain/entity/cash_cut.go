package entity

import (
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CashCutRow is one aggregated row of the cash cut report, grouped upstream
// by day, payment method and user.
type CashCutRow struct {
	Date          time.Time          `json:"date"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	User          string             `json:"user"`
	SalesCount    int                `json:"sales_count"`
	SalesTotal    decimal.Decimal    `json:"sales_total"`
}

type CashCutFilter struct {
	From          *time.Time
	To            *time.Time
	PaymentMethod *enum.PaymentMethod
	UserID        *int64
}

// CashCut is the report plus its grand totals.
type CashCut struct {
	Rows       []CashCutRow    `json:"rows"`
	SalesCount int             `json:"sales_count"`
	Total      decimal.Decimal `json:"total"`

	ByMethod map[enum.PaymentMethod]decimal.Decimal `json:"-"`
}

func NewCashCut(rows []CashCutRow) *CashCut {
	cut := &CashCut{
		Rows:     rows,
		Total:    decimal.Zero,
		ByMethod: make(map[enum.PaymentMethod]decimal.Decimal),
	}
	for _, r := range rows {
		cut.SalesCount += r.SalesCount
		cut.Total = cut.Total.Add(r.SalesTotal)
		cut.ByMethod[r.PaymentMethod] = cut.ByMethod[r.PaymentMethod].Add(r.SalesTotal)
	}
	return cut
}
