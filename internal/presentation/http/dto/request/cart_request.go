package request

import (
	"bytes"
	"encoding/json"

	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateCartRequest opens a ticket. Kind defaults to sale.
type CreateCartRequest struct {
	Kind string `json:"kind" binding:"omitempty,oneof=sale quotation"`
}

// AddItemRequest adds one unit by scanned token or by catalog id.
type AddItemRequest struct {
	Token     string `json:"token" binding:"max=128"`
	ProductID int64  `json:"product_id" binding:"omitempty,min=1"`
}

// RawQuantity keeps whatever the quantity field held, number or text, so
// the cart can coerce it.
type RawQuantity string

func (q *RawQuantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = RawQuantity(s)
		return nil
	}
	*q = RawQuantity(data)
	return nil
}

// SetQuantityRequest edits a line quantity.
type SetQuantityRequest struct {
	Quantity RawQuantity `json:"quantity"`
}

// SetPaymentRequest selects the payment method and, for cash, the amount received.
type SetPaymentRequest struct {
	PaymentMethod  *enum.PaymentMethod `json:"payment_method" binding:"required"`
	AmountTendered *decimal.Decimal    `json:"amount_tendered"`
}

// SetCustomerRequest names the customer of a quotation.
type SetCustomerRequest struct {
	Customer string `json:"customer" binding:"max=255"`
}
