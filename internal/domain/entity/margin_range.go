package entity

import "github.com/shopspring/decimal"

// MarginRange maps a purchase price band to a markup percentage.
// A nil Max means the band is open ended.
type MarginRange struct {
	ID         int64            `json:"id"`
	Min        decimal.Decimal  `json:"min"`
	Max        *decimal.Decimal `json:"max,omitempty"`
	Percentage decimal.Decimal  `json:"percentage"`
}

// Contains is inclusive at both ends.
func (r MarginRange) Contains(cost decimal.Decimal) bool {
	if cost.LessThan(r.Min) {
		return false
	}
	return r.Max == nil || cost.LessThanOrEqual(*r.Max)
}

// SuggestedPrice is cost marked up by the band percentage, truncated to whole pesos.
func (r MarginRange) SuggestedPrice(cost decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(r.Percentage.Div(decimal.NewFromInt(100)))
	return cost.Mul(factor).Floor()
}
