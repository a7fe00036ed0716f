package upstream

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// The backend serializes numeric columns either as JSON numbers or as
// strings, depending on the driver. These types accept both.

type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	*f = flexInt(d.IntPart())
	return nil
}

type flexDecimal struct {
	decimal.NullDecimal
}

// Infinity is how open-ended margin bands come back from some clients.
func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" || s == "Infinity" {
		f.Valid = false
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid decimal %s", data)
	}
	f.Decimal, f.Valid = d, true
	return nil
}

func (f flexDecimal) value() decimal.Decimal {
	if !f.Valid {
		return decimal.Zero
	}
	return f.Decimal
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		f.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid time %s", data)
}

// parseMethod falls back to cash for labels the backend may have stored in
// older formats.
func parseMethod(label string) enum.PaymentMethod {
	m, err := enum.ParsePaymentMethod(label)
	if err != nil {
		return enum.PaymentCash
	}
	return m
}

type productDTO struct {
	ID            flexInt     `json:"id"`
	Code          string      `json:"codigo"`
	Barcode       *string     `json:"codigo_barras"`
	Description   string      `json:"descripcion"`
	SalePrice     flexDecimal `json:"precio_venta"`
	PurchasePrice flexDecimal `json:"precio_compra"`
	Stock         flexInt     `json:"cantidad_stock"`
	MissingStock  flexInt     `json:"stock_faltante"`
	Location      *string     `json:"ubicacion"`
	Supplier      *string     `json:"nombre_proveedor"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (p productDTO) toEntity() entity.Product {
	stock := int(p.Stock)
	if stock < 0 {
		stock = 0
	}
	return entity.Product{
		ID:            int64(p.ID),
		Code:          p.Code,
		Barcode:       deref(p.Barcode),
		Description:   p.Description,
		UnitPrice:     p.SalePrice.value(),
		PurchasePrice: p.PurchasePrice.value(),
		StockQuantity: stock,
		MissingStock:  int(p.MissingStock),
		Location:      deref(p.Location),
		Supplier:      deref(p.Supplier),
	}
}

type lineItemDTO struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"cantidad"`
}

func lineItems(items []entity.SaleItem) []lineItemDTO {
	out := make([]lineItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, lineItemDTO{ID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

type createSaleDTO struct {
	PaymentMethod string        `json:"forma_pago"`
	Products      []lineItemDTO `json:"productos"`
	UserID        int64         `json:"usuario_id"`
}

type createSaleResponseDTO struct {
	SaleID flexInt `json:"ventaId"`
}

type saleLineDTO struct {
	Description string      `json:"descripcion"`
	Quantity    flexInt     `json:"cantidad"`
	UnitPrice   flexDecimal `json:"precio_unitario"`
}

func (l saleLineDTO) toEntity() entity.SaleLine {
	return entity.SaleLine{
		Description: l.Description,
		Quantity:    int(l.Quantity),
		UnitPrice:   l.UnitPrice.value(),
	}
}

type saleSummaryDTO struct {
	ID            flexInt     `json:"id"`
	Date          flexTime    `json:"fecha"`
	Total         flexDecimal `json:"total"`
	PaymentMethod string      `json:"forma_pago"`
	User          string      `json:"usuario"`
}

func (s saleSummaryDTO) toEntity() entity.SaleSummary {
	return entity.SaleSummary{
		ID:            int64(s.ID),
		Date:          s.Date.Time,
		Total:         s.Total.value(),
		PaymentMethod: parseMethod(s.PaymentMethod),
		User:          s.User,
	}
}

type quotationRequestDTO struct {
	Customer      *string       `json:"cliente"`
	PaymentMethod string        `json:"forma_pago"`
	Products      []lineItemDTO `json:"productos"`
	UserID        int64         `json:"usuario_id,omitempty"`
}

func newQuotationRequestDTO(req entity.QuotationRequest) quotationRequestDTO {
	dto := quotationRequestDTO{
		PaymentMethod: req.PaymentMethod.String(),
		Products:      lineItems(req.Items),
		UserID:        req.UserID,
	}
	if c := strings.TrimSpace(req.Customer); c != "" {
		dto.Customer = &c
	}
	return dto
}

type createQuotationResponseDTO struct {
	QuotationID flexInt `json:"cotizacion_id"`
}

type quotationLineDTO struct {
	ID          flexInt     `json:"id"`
	Description string      `json:"descripcion"`
	UnitPrice   flexDecimal `json:"precio_unitario"`
	Quantity    flexInt     `json:"cantidad"`
	Stock       flexInt     `json:"cantidad_stock"`
}

type quotationDTO struct {
	ID            flexInt            `json:"id"`
	Customer      *string            `json:"cliente"`
	Date          flexTime           `json:"fecha"`
	PaymentMethod string             `json:"forma_pago"`
	Seller        string             `json:"vendedor"`
	Total         flexDecimal        `json:"total"`
	Status        string             `json:"estado"`
	Products      []quotationLineDTO `json:"productos"`
}

func (q quotationDTO) toEntity() *entity.Quotation {
	out := &entity.Quotation{
		ID:            int64(q.ID),
		Customer:      deref(q.Customer),
		Date:          q.Date.Time,
		PaymentMethod: parseMethod(q.PaymentMethod),
		Seller:        q.Seller,
		Lines:         make([]entity.QuotationLine, 0, len(q.Products)),
	}
	for _, p := range q.Products {
		out.Lines = append(out.Lines, entity.QuotationLine{
			ProductID:     int64(p.ID),
			Description:   p.Description,
			UnitPrice:     p.UnitPrice.value(),
			Quantity:      int(p.Quantity),
			StockQuantity: int(p.Stock),
		})
	}
	return out
}

func (q quotationDTO) toSummary() entity.QuotationSummary {
	return entity.QuotationSummary{
		ID:            int64(q.ID),
		Customer:      deref(q.Customer),
		Date:          q.Date.Time,
		PaymentMethod: parseMethod(q.PaymentMethod),
		Seller:        q.Seller,
		Total:         q.Total.value(),
		Status:        q.Status,
	}
}

type cashCutRowDTO struct {
	Date          flexTime    `json:"fecha"`
	PaymentMethod string      `json:"forma_pago"`
	User          string      `json:"usuario"`
	SalesCount    flexInt     `json:"cantidad_ventas"`
	SalesTotal    flexDecimal `json:"total_ventas"`
}

func (r cashCutRowDTO) toEntity() entity.CashCutRow {
	return entity.CashCutRow{
		Date:          r.Date.Time,
		PaymentMethod: parseMethod(r.PaymentMethod),
		User:          r.User,
		SalesCount:    int(r.SalesCount),
		SalesTotal:    r.SalesTotal.value(),
	}
}

type marginRangeDTO struct {
	ID         flexInt     `json:"id,omitempty"`
	Min        flexDecimal `json:"min"`
	Max        flexDecimal `json:"max"`
	Percentage flexDecimal `json:"porcentaje"`
}

func (r marginRangeDTO) toEntity() entity.MarginRange {
	out := entity.MarginRange{
		ID:         int64(r.ID),
		Min:        r.Min.value(),
		Percentage: r.Percentage.value(),
	}
	if r.Max.Valid {
		max := r.Max.Decimal
		out.Max = &max
	}
	return out
}

// marginRangeBody is the write shape; an open band is sent as a null max.
type marginRangeBody struct {
	Min        decimal.Decimal  `json:"min"`
	Max        *decimal.Decimal `json:"max"`
	Percentage decimal.Decimal  `json:"porcentaje"`
}

func newMarginRangeBody(r entity.MarginRange) marginRangeBody {
	return marginRangeBody{Min: r.Min, Max: r.Max, Percentage: r.Percentage}
}
