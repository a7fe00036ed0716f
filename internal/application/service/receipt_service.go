package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/infrastructure/metrics"
	"github.com/climasgama/pos-terminal/pkg/layout"
	"github.com/climasgama/pos-terminal/pkg/money"
	"github.com/climasgama/pos-terminal/pkg/numwords"
	"github.com/shopspring/decimal"
)

const dateLayout = "02/01/2006"

// Thermal ticket typography, in points.
var (
	ticketTitle   = layout.Helvetica(12).Bolded()
	ticketBody    = layout.Helvetica(8)
	ticketRow     = layout.Courier(7.5)
	ticketTotal   = layout.Helvetica(11).Bolded()
	ticketWords   = layout.Helvetica(7.2)
	ticketSmall   = layout.Helvetica(6.2)
	quoteTitle    = layout.Helvetica(16).Bolded()
	quoteBody     = layout.Helvetica(10)
	quoteItem     = layout.Helvetica(9)
	quoteTotal    = layout.Helvetica(12).Bolded()
	quoteIndentMM = 6.0
)

// ExportedFile is a generated document ready for download.
type ExportedFile struct {
	FileName    string
	ContentType string
	Content     []byte
	Pages       int
}

// ReceiptService composes receipts and lays them out. Documents are rebuilt
// on every request and never stored.
type ReceiptService struct {
	cfg      config.ReceiptConfig
	measurer layout.Measurer
	metrics  *metrics.Metrics
}

// NewReceiptService creates a new receipt service
func NewReceiptService(cfg *config.ReceiptConfig, measurer layout.Measurer, m *metrics.Metrics) *ReceiptService {
	return &ReceiptService{cfg: *cfg, measurer: measurer, metrics: m}
}

func (s *ReceiptService) header() entity.ReceiptHeader {
	return entity.ReceiptHeader{BusinessName: s.cfg.BusinessName, AddressLines: s.cfg.AddressLines}
}

func (s *ReceiptService) footer() entity.ReceiptFooter {
	return entity.ReceiptFooter{Notice: s.cfg.Notice, Thanks: s.cfg.Thanks, ContactLines: s.cfg.ContactLines}
}

// FromSale builds the ticket for a committed sale. Cash figures are printed
// only when payment is given.
func (s *ReceiptService) FromSale(sale *entity.Sale, payment *entity.PaymentResult, tendered *decimal.Decimal) *entity.Receipt {
	total := sale.Total()
	r := &entity.Receipt{
		Kind:          entity.ReceiptSale,
		Number:        sale.ID,
		Header:        s.header(),
		Date:          sale.Date,
		Customer:      s.cfg.Customer,
		Seller:        sale.Seller,
		PaymentMethod: sale.PaymentMethod.String(),
		Items:         make([]entity.ReceiptItem, 0, len(sale.Lines)),
		Total:         total,
		AmountInWords: numwords.AmountInWords(total),
		Footer:        s.footer(),
	}
	for _, l := range sale.Lines {
		r.Items = append(r.Items, entity.ReceiptItem{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}
	if payment != nil && tendered != nil && sale.PaymentMethod.IsCash() {
		t, c := *tendered, payment.Change
		r.Tendered, r.Change = &t, &c
	}
	return r
}

// FromQuotation builds the letter-size quotation document.
func (s *ReceiptService) FromQuotation(q *entity.Quotation) *entity.Receipt {
	total := q.Total()
	r := &entity.Receipt{
		Kind:          entity.ReceiptQuotation,
		Number:        q.ID,
		Header:        entity.ReceiptHeader{BusinessName: "COTIZACIÓN"},
		Date:          q.Date,
		Customer:      q.Customer,
		Seller:        q.Seller,
		PaymentMethod: q.PaymentMethod.String(),
		Items:         make([]entity.ReceiptItem, 0, len(q.Lines)),
		Total:         total,
		AmountInWords: numwords.AmountInWords(total),
	}
	for _, l := range q.Lines {
		r.Items = append(r.Items, entity.ReceiptItem{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}
	return r
}

// FileName is sale_<id>.pdf or quotation_<id>.pdf.
func FileName(r *entity.Receipt) string {
	if r.Kind == entity.ReceiptQuotation {
		return fmt.Sprintf("quotation_%d.pdf", r.Number)
	}
	return fmt.Sprintf("sale_%d.pdf", r.Number)
}

// Layout flows r onto pages in print order.
func (s *ReceiptService) Layout(r *entity.Receipt) *layout.Document {
	if r.Kind == entity.ReceiptQuotation {
		return s.layoutQuotation(r)
	}
	return s.layoutTicket(r)
}

// Render lays r out and draws it to PDF.
func (s *ReceiptService) Render(r *entity.Receipt) (*ExportedFile, error) {
	start := time.Now()
	doc := s.Layout(r)
	content, err := layout.RenderPDF(doc)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRender(string(r.Kind), "pdf", time.Since(start))

	return &ExportedFile{
		FileName:    FileName(r),
		ContentType: "application/pdf",
		Content:     content,
		Pages:       len(doc.Pages),
	}, nil
}

func (s *ReceiptService) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(s.cfg.Location()).Format(dateLayout)
}

func (s *ReceiptService) thermalSpec() layout.PageSpec {
	spec := layout.Thermal58()
	if s.cfg.ThermalHeight > 0 {
		spec.Height = s.cfg.ThermalHeight
	}
	return spec
}

func rule(gap float64) *layout.Block {
	return layout.NewBlock("rule").Add(layout.HRule(gap))
}

func (s *ReceiptService) layoutTicket(r *entity.Receipt) *layout.Document {
	e := layout.NewEngine(s.thermalSpec(), s.measurer)
	w := e.Width()

	header := layout.NewBlock("header")
	header.Add(e.Text(r.Header.BusinessName, ticketTitle, layout.AlignCenter, ticketTitle.LineHeight())...)
	header.Add(e.TextLines(r.Header.AddressLines, ticketBody, layout.AlignCenter, ticketBody.LineHeight())...)
	e.Place(header)
	e.Place(rule(2))

	meta := layout.NewBlock("meta")
	meta.Add(layout.Spacer(1.5))
	meta.Add(layout.Row(ticketBody.LineHeight(),
		layout.Span{Text: "Fecha: " + s.formatDate(r.Date), Style: ticketBody},
		layout.Span{Text: fmt.Sprintf("V_ID: %d", r.Number), Style: ticketBody, X: w, Align: layout.AlignRight},
	))
	meta.Add(layout.Row(ticketBody.LineHeight(), layout.Span{Text: "Cliente: " + r.Customer, Style: ticketBody}))
	meta.Add(layout.Row(ticketBody.LineHeight(), layout.Span{Text: "Vendedor: " + r.Seller, Style: ticketBody}))
	e.Place(meta)
	e.Place(rule(2))

	for i, item := range r.Items {
		e.Place(s.ticketItem(item, w, i == len(r.Items)-1))
	}

	e.Place(rule(2))
	total := layout.NewBlock("total")
	total.Add(layout.Spacer(1))
	total.Add(layout.Row(ticketTotal.LineHeight()+1,
		layout.Span{Text: "TOTAL:", Style: ticketTotal},
		layout.Span{Text: money.FormatMXN(r.Total), Style: ticketTotal, X: w, Align: layout.AlignRight},
	))
	if r.Tendered != nil && r.Change != nil {
		total.Add(layout.Row(ticketBody.LineHeight(),
			layout.Span{Text: "Efectivo:", Style: ticketBody},
			layout.Span{Text: money.FormatMXN(*r.Tendered), Style: ticketBody, X: w, Align: layout.AlignRight},
		))
		total.Add(layout.Row(ticketBody.LineHeight(),
			layout.Span{Text: "Cambio:", Style: ticketBody},
			layout.Span{Text: money.FormatMXN(*r.Change), Style: ticketBody, X: w, Align: layout.AlignRight},
		))
	}
	e.Place(total)

	words := layout.NewBlock("amount-in-words")
	words.Add(e.Text(strings.ToUpper(r.AmountInWords), ticketWords, layout.AlignCenter, ticketWords.LineHeight())...)
	e.Place(words)

	e.Place(rule(2))
	footer := layout.NewBlock("footer")
	footer.Add(layout.Spacer(1.5))
	if r.Footer.Notice != "" {
		footer.Add(e.Text(r.Footer.Notice, ticketSmall.Bolded(), layout.AlignCenter, ticketSmall.LineHeight())...)
		footer.Add(layout.Spacer(2))
	}
	if r.Footer.Thanks != "" {
		footer.Add(e.Text(r.Footer.Thanks, ticketBody.Bolded(), layout.AlignCenter, ticketBody.LineHeight())...)
		footer.Add(layout.Spacer(2))
	}
	footer.Add(e.TextLines(r.Footer.ContactLines, ticketSmall, layout.AlignCenter, ticketSmall.LineHeight())...)
	e.Place(footer)

	return e.Document(FileName(r))
}

// ticketItem keeps description, figures and separator of one line together.
// The figures row holds quantity on the left, unit price right-aligned at
// about two thirds of the width and the subtotal flush right.
func (s *ReceiptService) ticketItem(item entity.ReceiptItem, w float64, last bool) *layout.Block {
	b := layout.NewBlock("item")
	desc := layout.WrapIndented(s.measurer, item.Description, w, ticketBody.Bolded(), "  ")
	for i, l := range desc {
		style := ticketBody
		if i == 0 {
			style = ticketBody.Bolded()
		}
		b.Add(layout.Row(ticketBody.LineHeight(), layout.Span{Text: l, Style: style}))
	}

	b.Add(layout.Row(ticketRow.LineHeight()+1,
		layout.Span{Text: fmt.Sprintf("Cant: %d", item.Quantity), Style: ticketRow},
		layout.Span{Text: "P.U. " + money.FormatMXN(item.UnitPrice), Style: ticketRow, X: w * 0.68, Align: layout.AlignRight},
		layout.Span{Text: money.FormatMXN(item.Subtotal), Style: ticketRow, X: w, Align: layout.AlignRight},
	))
	if !last {
		b.Add(layout.ThinRule(1.2))
	}
	return b
}

func (s *ReceiptService) layoutQuotation(r *entity.Receipt) *layout.Document {
	e := layout.NewEngine(layout.Letter(), s.measurer)
	w := e.Width()

	customer := r.Customer
	if customer == "" {
		customer = "-"
	}

	header := layout.NewBlock("header")
	header.Add(e.Text(r.Header.BusinessName, quoteTitle, layout.AlignCenter, 10)...)
	for _, l := range []string{
		fmt.Sprintf("ID: %d", r.Number),
		"Cliente: " + customer,
		"Fecha: " + s.formatDate(r.Date),
		"Forma de pago: " + r.PaymentMethod,
		"Vendedor: " + r.Seller,
	} {
		header.Add(layout.Row(6, layout.Span{Text: l, Style: quoteBody}))
	}
	header.Add(layout.Spacer(4))
	header.Add(layout.Row(8, layout.Span{Text: "Productos:", Style: quoteBody.Bolded()}))
	e.Place(header)

	for _, item := range r.Items {
		b := layout.NewBlock("item")
		for _, l := range layout.WrapLines(s.measurer, item.Description, w, quoteItem) {
			b.Add(layout.Row(5, layout.Span{Text: l, Style: quoteItem}))
		}
		b.Add(layout.Row(8,
			layout.Span{Text: fmt.Sprintf("Cant: %d", item.Quantity), Style: quoteItem, X: quoteIndentMM},
			layout.Span{Text: "P.Unit: " + money.FormatMXN(item.UnitPrice), Style: quoteItem, X: 66},
			layout.Span{Text: "Subtotal: " + money.FormatMXN(item.Subtotal), Style: quoteItem, X: w, Align: layout.AlignRight},
		))
		e.Place(b)
	}

	total := layout.NewBlock("total")
	total.Add(layout.Spacer(10))
	total.Add(layout.Row(10, layout.Span{Text: "TOTAL: " + money.FormatMXN(r.Total), Style: quoteTotal, X: w, Align: layout.AlignRight}))
	total.Add(e.Text(strings.ToUpper(r.AmountInWords), quoteBody, layout.AlignLeft, quoteBody.LineHeight())...)
	e.Place(total)

	return e.Document(FileName(r))
}
