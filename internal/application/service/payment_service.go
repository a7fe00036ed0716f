package service

import (
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// EvaluatePayment checks whether the amount tendered covers total. Only cash
// needs a tendered amount; a nil amount counts as zero. Every other method is
// always valid and carries no change.
func EvaluatePayment(method enum.PaymentMethod, total decimal.Decimal, tendered *decimal.Decimal) entity.PaymentResult {
	if !method.IsCash() {
		return entity.PaymentResult{IsValid: true, Change: decimal.Zero, Shortfall: decimal.Zero}
	}

	paid := decimal.Zero
	if tendered != nil {
		paid = *tendered
	}
	diff := paid.Sub(total)

	result := entity.PaymentResult{
		IsValid:   !diff.IsNegative(),
		Change:    decimal.Zero,
		Shortfall: decimal.Zero,
	}
	if diff.IsPositive() {
		result.Change = diff
	} else {
		result.Shortfall = diff.Neg()
	}
	return result
}
