package entity

import "github.com/shopspring/decimal"

// PaymentResult is derived on every change of method or amount tendered.
// Change and Shortfall are never negative.
type PaymentResult struct {
	IsValid   bool            `json:"is_valid"`
	Change    decimal.Decimal `json:"change"`
	Shortfall decimal.Decimal `json:"shortfall"`
}
