package request

import (
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/climasgama/pos-terminal/pkg/apperror"
)

const dateLayout = "2006-01-02"

// CashCutQuery holds the cash cut filters, named as the backend names them.
type CashCutQuery struct {
	From          string `form:"desde"`
	To            string `form:"hasta"`
	PaymentMethod string `form:"forma_pago"`
	UserID        int64  `form:"usuario_id" binding:"omitempty,min=1"`
	Format        string `form:"format" binding:"omitempty,oneof=xlsx pdf"`
}

// ToFilter parses the query into a cash cut filter.
func (q CashCutQuery) ToFilter() (entity.CashCutFilter, error) {
	var filter entity.CashCutFilter
	var fields []apperror.FieldError

	from, err := parseDate(q.From)
	if err != nil {
		fields = append(fields, apperror.FieldError{Field: "desde", Message: "expected YYYY-MM-DD"})
	}
	to, err := parseDate(q.To)
	if err != nil {
		fields = append(fields, apperror.FieldError{Field: "hasta", Message: "expected YYYY-MM-DD"})
	}
	method, err := parseMethod(q.PaymentMethod)
	if err != nil {
		fields = append(fields, apperror.FieldError{Field: "forma_pago", Message: err.Error()})
	}
	if len(fields) > 0 {
		return filter, apperror.NewValidationError(fields)
	}

	filter.From, filter.To, filter.PaymentMethod = from, to, method
	if q.UserID > 0 {
		id := q.UserID
		filter.UserID = &id
	}
	return filter, nil
}

// InventoryQuery holds the inventory screen filters.
type InventoryQuery struct {
	Search   string `form:"search"`
	Supplier string `form:"proveedor"`
	Location string `form:"ubicacion"`
	Stock    string `form:"stock"`
	Format   string `form:"format" binding:"omitempty,oneof=xlsx pdf"`
}

// ToFilter parses the query into an inventory filter.
func (q InventoryQuery) ToFilter() (entity.InventoryFilter, error) {
	stock, err := enum.ParseStockFilter(q.Stock)
	if err != nil {
		return entity.InventoryFilter{}, apperror.NewValidationError([]apperror.FieldError{{Field: "stock", Message: err.Error()}})
	}
	return entity.InventoryFilter{
		Search:   q.Search,
		Supplier: q.Supplier,
		Location: q.Location,
		Stock:    stock,
	}, nil
}

// SaleHistoryQuery filters and pages the sale history.
type SaleHistoryQuery struct {
	Search        string `form:"search"`
	PaymentMethod string `form:"forma_pago"`
	From          string `form:"desde"`
	To            string `form:"hasta"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}

// ToFilter parses the query into a sale history filter.
func (q SaleHistoryQuery) ToFilter() (entity.SaleHistoryFilter, error) {
	var fields []apperror.FieldError
	from, err := parseDate(q.From)
	if err != nil {
		fields = append(fields, apperror.FieldError{Field: "desde", Message: "expected YYYY-MM-DD"})
	}
	to, err := parseDate(q.To)
	if err != nil {
		fields = append(fields, apperror.FieldError{Field: "hasta", Message: "expected YYYY-MM-DD"})
	}
	method, err := parseMethod(q.PaymentMethod)
	if err != nil {
		fields = append(fields, apperror.FieldError{Field: "forma_pago", Message: err.Error()})
	}
	if len(fields) > 0 {
		return entity.SaleHistoryFilter{}, apperror.NewValidationError(fields)
	}
	return entity.SaleHistoryFilter{Search: q.Search, PaymentMethod: method, From: from, To: to}, nil
}

// SearchQuery is the catalog search box.
type SearchQuery struct {
	Query string `form:"q"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ListQuery pages a locally filtered list.
type ListQuery struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseMethod(s string) (*enum.PaymentMethod, error) {
	if s == "" {
		return nil, nil
	}
	m, err := enum.ParsePaymentMethod(s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
