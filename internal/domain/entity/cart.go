package entity

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CartKind tells a sale ticket from a quotation. Quotations never touch stock.
type CartKind string

const (
	CartKindSale      CartKind = "sale"
	CartKindQuotation CartKind = "quotation"
)

// CartLine is one product on a ticket. It copies what it needs from the
// product when added and keeps no reference to the catalog, so a later price
// change does not alter lines already on the ticket.
type CartLine struct {
	ProductID     int64           `json:"product_id"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	Quantity      int             `json:"quantity"`
}

// NewCartLine freezes p's price and stock into a line of quantity one.
func NewCartLine(p Product) CartLine {
	return CartLine{
		ProductID:     p.ID,
		Code:          p.Code,
		Description:   p.Description,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		Quantity:      1,
	}
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the in-memory ticket for one sale or quotation.
type Cart struct {
	ID             string             `json:"id"`
	Kind           CartKind           `json:"kind"`
	Lines          []CartLine         `json:"lines"`
	PaymentMethod  enum.PaymentMethod `json:"payment_method"`
	AmountTendered *decimal.Decimal   `json:"amount_tendered,omitempty"`
	Customer       string             `json:"customer,omitempty"`
	QuotationID    int64              `json:"quotation_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func NewCart(id string, kind CartKind) *Cart {
	now := time.Now()
	return &Cart{
		ID:            id,
		Kind:          kind,
		Lines:         []CartLine{},
		PaymentMethod: enum.PaymentCash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}

func (c *Cart) indexOf(productID int64) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddOrIncrement adds p with quantity one, or bumps the existing line by one.
// The existing line keeps the price it was added with.
func (c *Cart) AddOrIncrement(p Product) CartLine {
	defer c.touch()
	if i := c.indexOf(p.ID); i >= 0 {
		c.Lines[i].Quantity++
		return c.Lines[i]
	}
	line := NewCartLine(p)
	c.Lines = append(c.Lines, line)
	return line
}

// SetQuantity coerces raw to a quantity of at least one. It reports false when
// the product is not on the ticket.
func (c *Cart) SetQuantity(productID int64, raw string) (CartLine, bool) {
	i := c.indexOf(productID)
	if i < 0 {
		return CartLine{}, false
	}
	c.Lines[i].Quantity = CoerceQuantity(raw)
	c.touch()
	return c.Lines[i], true
}

// Remove drops the line for productID. It reports whether a line was removed.
func (c *Cart) Remove(productID int64) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.touch()
	return true
}

// Clear empties the ticket and forgets payment details.
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.AmountTendered = nil
	c.PaymentMethod = enum.PaymentCash
	c.Customer = ""
	c.QuotationID = 0
	c.touch()
}

// Total is the exact sum of line subtotals. Rounding happens only on display.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Line(productID int64) (CartLine, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

// Units is the number of pieces on the ticket.
func (c *Cart) Units() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Clone returns a deep copy that can leave the owning lock.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Lines = make([]CartLine, len(c.Lines))
	copy(cp.Lines, c.Lines)
	if c.AmountTendered != nil {
		t := *c.AmountTendered
		cp.AmountTendered = &t
	}
	return &cp
}

// CoerceQuantity turns user input into a quantity. Fractions are truncated.
// Anything unparseable or below one becomes one.
func CoerceQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
			return 1
		}
		n = int(f)
	}
	if n < 1 {
		return 1
	}
	return n
}

// StockShortage names the first line asking for more than is available.
type StockShortage struct {
	Line      CartLine
	Available int
}

// CheckStock compares every line with the last known stock. stockOf returns
// the current catalog figure; lines fall back to the stock captured when they
// were added.
func CheckStock(lines []CartLine, stockOf func(productID int64) (int, bool)) *StockShortage {
	for _, l := range lines {
		available := l.StockQuantity
		if stockOf != nil {
			if s, ok := stockOf(l.ProductID); ok {
				available = s
			}
		}
		if l.Quantity > available {
			return &StockShortage{Line: l, Available: available}
		}
	}
	return nil
}
