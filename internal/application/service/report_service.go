package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/repository"
	"github.com/climasgama/pos-terminal/internal/infrastructure/metrics"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/climasgama/pos-terminal/pkg/layout"
	"github.com/climasgama/pos-terminal/pkg/money"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Export formats accepted by the report endpoints.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	reportTitle = layout.Helvetica(14).Bolded()
	reportBody  = layout.Helvetica(8)
)

var cashCutTable = layout.Table{
	Style: reportBody,
	Gap:   2,
	Columns: []layout.Column{
		{Title: "Fecha", Width: 30},
		{Title: "Forma de Pago", Width: 40},
		{Title: "Usuario", Width: 50},
		{Title: "Cantidad Ventas", Width: 30, Align: layout.AlignRight},
		{Title: "Total", Width: 37.9, Align: layout.AlignRight},
	},
}

var inventoryTable = layout.Table{
	Style: reportBody,
	Gap:   1.5,
	Columns: []layout.Column{
		{Title: "Código", Width: 22},
		{Title: "Descripción", Width: 55},
		{Title: "Proveedor", Width: 25},
		{Title: "Ubicación", Width: 20},
		{Title: "Stock", Width: 14, Align: layout.AlignRight},
		{Title: "Faltante", Width: 16, Align: layout.AlignRight},
		{Title: "P. Compra", Width: 18, Align: layout.AlignRight},
		{Title: "P. Venta", Width: 17.9, Align: layout.AlignRight},
	},
}

// ReportService builds the admin reports: cash cut and inventory.
type ReportService struct {
	reports  repository.ReportGateway
	catalog  *CatalogService
	measurer layout.Measurer
	location *time.Location
	metrics  *metrics.Metrics
	logger   *logrus.Logger
	now      func() time.Time
}

// NewReportService creates a new report service
func NewReportService(reports repository.ReportGateway, catalog *CatalogService, measurer layout.Measurer, cfg *config.ReceiptConfig, m *metrics.Metrics) *ReportService {
	return &ReportService{
		reports:  reports,
		catalog:  catalog,
		measurer: measurer,
		location: cfg.Location(),
		metrics:  m,
		logger:   config.GetLogger(),
		now:      time.Now,
	}
}

// CashCut fetches the cash cut rows and adds the grand totals.
func (s *ReportService) CashCut(ctx context.Context, session entity.Session, filter entity.CashCutFilter) (*entity.CashCut, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperror.NewBadRequestError("La fecha final es anterior a la inicial")
	}
	rows, err := s.reports.CashCut(ctx, session, filter)
	if err != nil {
		config.LogError(s.logger, "ReportService", "CashCut", "cash cut fetch failed", nil, err)
		return nil, apperror.NewUpstreamError("No se pudo cargar el corte de caja", err)
	}
	return entity.NewCashCut(rows), nil
}

// ExportCashCut renders the cash cut as corte_caja.xlsx or corte_caja.pdf.
func (s *ReportService) ExportCashCut(ctx context.Context, session entity.Session, filter entity.CashCutFilter, format string) (*ExportedFile, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	cut, err := s.CashCut(ctx, session, filter)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var file *ExportedFile
	if format == FormatXLSX {
		file, err = s.cashCutXLSX(cut)
	} else {
		file, err = s.cashCutPDF(cut)
	}
	if err != nil {
		config.LogError(s.logger, "ReportService", "ExportCashCut", "export failed", format, err)
		return nil, err
	}
	s.metrics.ObserveRender("cash_cut", format, time.Since(start))
	return file, nil
}

// Inventory returns the filtered inventory view of the current catalog.
func (s *ReportService) Inventory(ctx context.Context, session entity.Session, filter entity.InventoryFilter) (*entity.InventoryView, error) {
	return s.catalog.Inventory(ctx, session, filter)
}

// ExportInventory renders the filtered inventory as inventario_<date>.xlsx or .pdf.
func (s *ReportService) ExportInventory(ctx context.Context, session entity.Session, filter entity.InventoryFilter, format string) (*ExportedFile, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	view, err := s.catalog.Inventory(ctx, session, filter)
	if err != nil {
		return nil, err
	}
	if len(view.Products) == 0 {
		return nil, apperror.NewBadRequestError("No hay datos para exportar")
	}

	start := time.Now()
	name := "inventario_" + s.now().In(s.location).Format("2006-01-02") + "." + format
	var file *ExportedFile
	if format == FormatXLSX {
		file, err = s.inventoryXLSX(view, name)
	} else {
		file, err = s.inventoryPDF(view, name)
	}
	if err != nil {
		config.LogError(s.logger, "ReportService", "ExportInventory", "export failed", format, err)
		return nil, err
	}
	s.metrics.ObserveRender("inventory", format, time.Since(start))
	return file, nil
}

func checkFormat(format string) error {
	if format != FormatXLSX && format != FormatPDF {
		return apperror.NewBadRequestError(fmt.Sprintf("Formato no soportado: %q", format))
	}
	return nil
}

func (s *ReportService) formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(s.location).Format("2006-01-02")
}

// writeSheet fills one sheet with a bold header row and the given rows.
func writeSheet(sheet string, headers []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		f.Close()
		return nil, err
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func xlsxFile(f *excelize.File, name string) (*ExportedFile, error) {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return &ExportedFile{FileName: name, ContentType: xlsxContentType, Content: buf.Bytes(), Pages: 1}, nil
}

func (s *ReportService) cashCutXLSX(cut *entity.CashCut) (*ExportedFile, error) {
	rows := make([][]interface{}, 0, len(cut.Rows)+1)
	for _, r := range cut.Rows {
		rows = append(rows, []interface{}{
			s.formatDay(r.Date),
			r.PaymentMethod.String(),
			r.User,
			r.SalesCount,
			money.Round(r.SalesTotal).InexactFloat64(),
		})
	}
	rows = append(rows, []interface{}{"TOTAL", "", "", cut.SalesCount, money.Round(cut.Total).InexactFloat64()})

	f, err := writeSheet("Reporte", []string{"Fecha", "Forma de Pago", "Usuario", "Cantidad Ventas", "Total"}, rows)
	if err != nil {
		return nil, err
	}
	return xlsxFile(f, "corte_caja.xlsx")
}

func (s *ReportService) inventoryXLSX(view *entity.InventoryView, name string) (*ExportedFile, error) {
	rows := make([][]interface{}, 0, len(view.Products))
	for _, p := range view.Products {
		rows = append(rows, []interface{}{
			p.Code,
			p.Description,
			p.Supplier,
			p.Location,
			p.StockQuantity,
			p.MissingStock,
			p.PurchasePrice.InexactFloat64(),
			p.UnitPrice.InexactFloat64(),
		})
	}
	f, err := writeSheet("Inventario", []string{"Código", "Descripción", "Proveedor", "Ubicación", "Stock", "Stock Faltante", "Precio Compra", "Precio Venta"}, rows)
	if err != nil {
		return nil, err
	}
	return xlsxFile(f, name)
}

func (s *ReportService) tableDocument(title, subtitle string, table layout.Table, rows [][]string, footer []string, name string) (*ExportedFile, error) {
	e := layout.NewEngine(layout.Letter(), s.measurer)

	head := layout.NewBlock("title")
	head.Add(layout.Row(reportTitle.LineHeight()+2, layout.Span{Text: title, Style: reportTitle}))
	if subtitle != "" {
		head.Add(layout.Row(reportBody.LineHeight()+2, layout.Span{Text: subtitle, Style: reportBody}))
	}
	e.Place(head)
	e.Place(table.Header(s.measurer))
	for _, row := range rows {
		e.Place(table.Row(s.measurer, row...))
	}

	if len(footer) > 0 {
		b := layout.NewBlock("totals").Add(layout.HRule(reportBody.LineHeight()))
		for _, l := range footer {
			b.Add(layout.Row(reportBody.LineHeight(), layout.Span{Text: l, Style: reportBody.Bolded(), X: e.Width(), Align: layout.AlignRight}))
		}
		e.Place(b)
	}

	doc := e.Document(name)
	content, err := layout.RenderPDF(doc)
	if err != nil {
		return nil, err
	}
	return &ExportedFile{FileName: name, ContentType: "application/pdf", Content: content, Pages: len(doc.Pages)}, nil
}

func (s *ReportService) cashCutPDF(cut *entity.CashCut) (*ExportedFile, error) {
	rows := make([][]string, 0, len(cut.Rows))
	for _, r := range cut.Rows {
		rows = append(rows, []string{
			s.formatDay(r.Date),
			r.PaymentMethod.String(),
			r.User,
			strconv.Itoa(r.SalesCount),
			money.FormatMXN(r.SalesTotal),
		})
	}
	footer := []string{
		fmt.Sprintf("Ventas: %d", cut.SalesCount),
		"Total: " + money.FormatMXN(cut.Total),
	}
	return s.tableDocument("Corte de Caja", "Generado: "+s.now().In(s.location).Format("02/01/2006 15:04"), cashCutTable, rows, footer, "corte_caja.pdf")
}

func (s *ReportService) inventoryPDF(view *entity.InventoryView, name string) (*ExportedFile, error) {
	rows := make([][]string, 0, len(view.Products))
	for _, p := range view.Products {
		rows = append(rows, []string{
			p.Code,
			p.Description,
			p.Supplier,
			p.Location,
			strconv.Itoa(p.StockQuantity),
			strconv.Itoa(p.MissingStock),
			p.PurchasePrice.StringFixed(2),
			money.FormatMXN(p.UnitPrice),
		})
	}
	footer := []string{
		"Total compra (faltantes): " + money.FormatMXN(view.PurchaseTotal),
		"Total venta (existencias): " + money.FormatMXN(view.SaleTotal),
	}
	return s.tableDocument("Inventario de productos", "", inventoryTable, rows, footer, name)
}
