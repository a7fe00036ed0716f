package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, desc, price string, stock int) Product {
	return Product{
		ID:            id,
		Code:          desc,
		Description:   desc,
		UnitPrice:     decimal.RequireFromString(price),
		StockQuantity: stock,
	}
}

func TestCart_AddOrIncrement(t *testing.T) {
	c := NewCart("c1", CartKindSale)
	a := product(1, "A", "10.00", 5)

	c.AddOrIncrement(a)
	line := c.AddOrIncrement(a)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestCart_PriceFrozenAtAddTime(t *testing.T) {
	c := NewCart("c1", CartKindSale)
	a := product(1, "A", "10.00", 5)
	c.AddOrIncrement(a)

	a.UnitPrice = decimal.RequireFromString("99.00")
	c.AddOrIncrement(a)

	assert.True(t, c.Lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, "20", c.Total().String())
}

func TestCart_SetQuantityCoercion(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"4", 4},
		{" 7 ", 7},
		{"2.9", 2},
		{"0", 1},
		{"-3", 1},
		{"abc", 1},
		{"", 1},
		{"0.5", 1},
		{"NaN", 1},
		{"1e20", 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := NewCart("c1", CartKindSale)
			c.AddOrIncrement(product(1, "A", "10.00", 5))

			line, ok := c.SetQuantity(1, tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, line.Quantity)
		})
	}
}

func TestCart_SetQuantityUnknownProduct(t *testing.T) {
	c := NewCart("c1", CartKindSale)
	_, ok := c.SetQuantity(42, "3")
	assert.False(t, ok)
}

func TestCart_TotalIndependentOfOrder(t *testing.T) {
	a := product(1, "A", "10.00", 5)
	b := product(2, "B", "25.00", 5)
	d := product(3, "D", "0.10", 50)

	first := NewCart("c1", CartKindSale)
	for _, p := range []Product{a, a, a, b, d} {
		first.AddOrIncrement(p)
	}
	second := NewCart("c2", CartKindSale)
	for _, p := range []Product{d, b, a, a, a} {
		second.AddOrIncrement(p)
	}

	assert.True(t, first.Total().Equal(second.Total()))
	assert.Equal(t, "55.1", first.Total().String())
}

func TestCart_TotalHasNoIntermediateRounding(t *testing.T) {
	c := NewCart("c1", CartKindSale)
	c.AddOrIncrement(product(1, "A", "0.333", 5))
	c.SetQuantity(1, "3")

	assert.Equal(t, "0.999", c.Total().String())
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := NewCart("c1", CartKindSale)
	c.AddOrIncrement(product(1, "A", "10.00", 5))
	c.AddOrIncrement(product(2, "B", "25.00", 5))
	tendered := decimal.NewFromInt(100)
	c.AmountTendered = &tendered

	assert.True(t, c.Remove(1))
	assert.False(t, c.Remove(1))
	_, ok := c.Line(2)
	assert.True(t, ok)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.AmountTendered)
	assert.True(t, c.Total().IsZero())
}

func TestCart_CloneIsDeep(t *testing.T) {
	c := NewCart("c1", CartKindSale)
	c.AddOrIncrement(product(1, "A", "10.00", 5))

	cp := c.Clone()
	c.SetQuantity(1, "4")

	assert.Equal(t, 1, cp.Lines[0].Quantity)
	assert.Equal(t, 4, c.Lines[0].Quantity)
}

func TestCheckStock(t *testing.T) {
	c := NewCart("c1", CartKindSale)
	c.AddOrIncrement(product(1, "A", "10.00", 5))
	c.AddOrIncrement(product(3, "C", "5.00", 2))
	c.SetQuantity(3, "5")

	shortage := CheckStock(c.Lines, nil)
	require.NotNil(t, shortage)
	assert.Equal(t, "C", shortage.Line.Description)
	assert.Equal(t, 2, shortage.Available)

	// a fresher catalog figure wins over the snapshot taken at add time
	fresh := func(id int64) (int, bool) {
		if id == 3 {
			return 10, true
		}
		return 0, false
	}
	assert.Nil(t, CheckStock(c.Lines, fresh))
}

func TestMarginRange(t *testing.T) {
	max := decimal.NewFromInt(100)
	r := MarginRange{Min: decimal.Zero, Max: &max, Percentage: decimal.NewFromInt(35)}

	assert.True(t, r.Contains(decimal.NewFromInt(100)))
	assert.False(t, r.Contains(decimal.RequireFromString("100.01")))
	assert.Equal(t, "67", r.SuggestedPrice(decimal.RequireFromString("50")).String())

	open := MarginRange{Min: decimal.NewFromInt(100), Percentage: decimal.NewFromInt(20)}
	assert.True(t, open.Contains(decimal.NewFromInt(1_000_000)))
}

func TestQuotation_ToCart(t *testing.T) {
	q := &Quotation{
		ID:       7,
		Customer: "Juan",
		Lines: []QuotationLine{
			{ProductID: 1, Description: "A", UnitPrice: decimal.NewFromInt(10), Quantity: 3, StockQuantity: 0},
		},
	}

	c := q.ToCart("c9")
	assert.Equal(t, CartKindQuotation, c.Kind)
	assert.Equal(t, int64(7), c.QuotationID)
	assert.Equal(t, "30", c.Total().String())
}
