package entity

import (
	"strconv"
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/climasgama/pos-terminal/pkg/textnorm"
	"github.com/shopspring/decimal"
)

// QuotationLine copies product data at quote time, like a cart line.
type QuotationLine struct {
	ProductID     int64           `json:"product_id"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	StockQuantity int             `json:"stock_quantity"`
}

func (l QuotationLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Quotation is a non-binding priced list. It never touches stock.
type Quotation struct {
	ID            int64              `json:"id"`
	Customer      string             `json:"customer"`
	Date          time.Time          `json:"date"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Seller        string             `json:"seller"`
	Lines         []QuotationLine    `json:"lines"`
}

func (q *Quotation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range q.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ToCart reopens the quotation as an editable quotation cart. Lines keep the
// quoted prices.
func (q *Quotation) ToCart(cartID string) *Cart {
	c := NewCart(cartID, CartKindQuotation)
	c.Customer = q.Customer
	c.PaymentMethod = q.PaymentMethod
	c.QuotationID = q.ID
	for _, l := range q.Lines {
		c.Lines = append(c.Lines, CartLine{
			ProductID:     l.ProductID,
			Description:   l.Description,
			UnitPrice:     l.UnitPrice,
			StockQuantity: l.StockQuantity,
			Quantity:      CoerceQuantity(strconv.Itoa(l.Quantity)),
		})
	}
	return c
}

// QuotationSummary is one row of the quotation list.
type QuotationSummary struct {
	ID            int64              `json:"id"`
	Customer      string             `json:"customer"`
	Date          time.Time          `json:"date"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Seller        string             `json:"seller"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status,omitempty"`
}

// SearchText covers id, customer and seller.
func (q QuotationSummary) SearchText() string {
	return textnorm.Join(strconv.FormatInt(q.ID, 10), q.Customer, q.Seller)
}

// QuotationRequest creates or replaces a quotation upstream.
type QuotationRequest struct {
	Customer      string
	PaymentMethod enum.PaymentMethod
	UserID        int64
	Items         []SaleItem
}

func NewQuotationRequest(c *Cart, userID int64) QuotationRequest {
	items := make([]SaleItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, SaleItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return QuotationRequest{
		Customer:      c.Customer,
		PaymentMethod: c.PaymentMethod,
		UserID:        userID,
		Items:         items,
	}
}
