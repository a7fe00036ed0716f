package entity

import (
	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// InventoryFilter is the full set of inputs of the inventory screen.
type InventoryFilter struct {
	Search   string           `json:"search"`
	Supplier string           `json:"supplier"`
	Location string           `json:"location"`
	Stock    enum.StockFilter `json:"stock"`
}

// InventoryView is the derived, filtered catalog with its option lists and totals.
type InventoryView struct {
	Products  []Product `json:"products"`
	Suppliers []string  `json:"suppliers"`
	Locations []string  `json:"locations"`
	// PurchaseTotal is what restocking the missing units would cost.
	PurchaseTotal decimal.Decimal `json:"purchase_total"`
	// SaleTotal is the sale value of the stock on hand.
	SaleTotal decimal.Decimal `json:"sale_total"`
	Version   uint64          `json:"version"`
}
