package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/infrastructure/metrics"
	"github.com/climasgama/pos-terminal/pkg/money"
	"github.com/climasgama/pos-terminal/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PrinterService sends receipts to the counter's thermal printer.
type PrinterService struct {
	printer     printer.Printer
	printerType string
	charWidth   int
	receipts    *ReceiptService
	metrics     *metrics.Metrics
	logger      *logrus.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, cfg *config.PrinterConfig, receipts *ReceiptService, m *metrics.Metrics) *PrinterService {
	return &PrinterService{
		printer:     p,
		printerType: cfg.Type,
		charWidth:   cfg.CharWidth,
		receipts:    receipts,
		metrics:     m,
		logger:      config.GetLogger(),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
	}
}

// TestPrint sends a sample ticket. The receipt is returned so the caller can
// show it when no printer is attached.
func (s *PrinterService) TestPrint(ctx context.Context, session entity.Session) (*entity.Receipt, error) {
	sale := &entity.Sale{
		ID:     0,
		Date:   time.Now(),
		Seller: session.DisplayName(),
		Lines: []entity.SaleLine{
			{Description: "Prueba de impresión", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
			{Description: "Artículo con descripción larga para revisar el ajuste de línea", Quantity: 2, UnitPrice: decimal.RequireFromString("5.50")},
		},
	}
	receipt := s.receipts.FromSale(sale, nil, nil)
	return receipt, s.Print(ctx, receipt)
}

// Print formats r as ESC/POS and sends it as one job.
func (s *PrinterService) Print(ctx context.Context, r *entity.Receipt) error {
	start := time.Now()
	data := s.FormatReceipt(r)
	s.metrics.ObserveRender(string(r.Kind), "escpos", time.Since(start))

	if err := s.printer.Print(ctx, FileName(r), data); err != nil {
		config.LogError(s.logger, "PrinterService", "Print", "print job failed", r.Number, err)
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"kind": r.Kind, "number": r.Number, "bytes": len(data)}).Info("receipt printed")
	return nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes, in the same order as
// the PDF ticket.
func (s *PrinterService) FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.charWidth)
	w := doc.Width()

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.BusinessName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	for _, l := range r.Header.AddressLines {
		doc.Wrapped(l, "")
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	if r.Kind == entity.ReceiptQuotation {
		doc.KeyValue("Cotizacion:", fmt.Sprint(r.Number))
	} else {
		doc.KeyValue("V_ID:", fmt.Sprint(r.Number))
	}
	doc.KeyValue("Fecha:", s.receipts.formatDate(r.Date))
	doc.Wrapped("Cliente: "+r.Customer, "  ")
	doc.Wrapped("Vendedor: "+r.Seller, "  ")
	if r.Kind == entity.ReceiptQuotation && r.PaymentMethod != "" {
		doc.KeyValue("Forma de pago:", r.PaymentMethod)
	}

	doc.Separator('-')

	midEnd := w * 2 / 3
	for i, item := range r.Items {
		lines := printer.WrapColumns(item.Description, w, "  ")
		for j, l := range lines {
			doc.SetBold(j == 0).Text(l)
		}
		doc.SetBold(false).
			Columns(fmt.Sprintf("Cant: %d", item.Quantity), money.FormatMXN(item.UnitPrice), money.FormatMXN(item.Subtotal), midEnd)
		if i < len(r.Items)-1 {
			doc.Text(strings.Repeat(".", w))
		}
	}

	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL:", money.FormatMXN(r.Total)).
		SetBold(false)
	if r.Tendered != nil && r.Change != nil {
		doc.KeyValue("Efectivo:", money.FormatMXN(*r.Tendered)).
			KeyValue("Cambio:", money.FormatMXN(*r.Change))
	}

	doc.SetAlign(printer.AlignCenter).
		Wrapped(r.AmountInWords, "")

	if r.Footer.Notice != "" || r.Footer.Thanks != "" || len(r.Footer.ContactLines) > 0 {
		doc.SetAlign(printer.AlignLeft).
			Separator('-').
			SetAlign(printer.AlignCenter)
		if r.Footer.Notice != "" {
			doc.SetBold(true).Wrapped(r.Footer.Notice, "").SetBold(false)
		}
		if r.Footer.Thanks != "" {
			doc.LineFeed().Wrapped(r.Footer.Thanks, "")
		}
		if len(r.Footer.ContactLines) > 0 {
			doc.LineFeed()
			for _, l := range r.Footer.ContactLines {
				doc.Wrapped(l, "")
			}
		}
	}

	doc.SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
