package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptKind selects page format and header for a receipt.
type ReceiptKind string

const (
	ReceiptSale      ReceiptKind = "sale"
	ReceiptQuotation ReceiptKind = "quotation"
)

// ReceiptHeader holds the business identity printed at the top of a ticket.
type ReceiptHeader struct {
	BusinessName string   `json:"business_name"`
	AddressLines []string `json:"address_lines,omitempty"`
}

// ReceiptFooter is printed under the amount in words.
type ReceiptFooter struct {
	Notice       string   `json:"notice,omitempty"`
	Thanks       string   `json:"thanks,omitempty"`
	ContactLines []string `json:"contact_lines,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Receipt is a value object representing a printable receipt.
// It is composed from a sale or quotation at print time and never stored.
type Receipt struct {
	Kind          ReceiptKind     `json:"kind"`
	Number        int64           `json:"number"`
	Header        ReceiptHeader   `json:"header"`
	Date          time.Time       `json:"date"`
	Customer      string          `json:"customer"`
	Seller        string          `json:"seller"`
	PaymentMethod string          `json:"payment_method"`
	Items         []ReceiptItem   `json:"items"`
	Total         decimal.Decimal `json:"total"`
	AmountInWords string          `json:"amount_in_words"`
	Footer        ReceiptFooter   `json:"footer"`
	// Tendered and Change are only set for cash sales printed right after submission.
	Tendered *decimal.Decimal `json:"tendered,omitempty"`
	Change   *decimal.Decimal `json:"change,omitempty"`
}
