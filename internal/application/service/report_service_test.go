package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeReports struct {
	rows   []entity.CashCutRow
	err    error
	filter entity.CashCutFilter
}

func (f *fakeReports) CashCut(ctx context.Context, session entity.Session, filter entity.CashCutFilter) ([]entity.CashCutRow, error) {
	f.filter = filter
	return f.rows, f.err
}

func newReportFixture(t *testing.T, products ...entity.Product) (*ReportService, *fakeReports) {
	t.Helper()
	reports := &fakeReports{rows: []entity.CashCutRow{
		{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), PaymentMethod: enum.PaymentCash, User: "Ana", SalesCount: 4, SalesTotal: dec("1250.50")},
		{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), PaymentMethod: enum.PaymentDebit, User: "Ana", SalesCount: 1, SalesTotal: dec("300")},
		{Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), PaymentMethod: enum.PaymentCash, User: "Luis", SalesCount: 2, SalesTotal: dec("99.50")},
	}}
	catalog := NewCatalogService(&fakeCatalog{products: products}, nil, time.Minute)
	svc := NewReportService(reports, catalog, testMeasurer, testReceiptConfig(), nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 4, 20, 0, 0, 0, time.UTC) }
	return svc, reports
}

func TestReportService_CashCut(t *testing.T) {
	svc, reports := newReportFixture(t)
	cash := enum.PaymentCash
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	cut, err := svc.CashCut(context.Background(), adminSession, entity.CashCutFilter{From: &from, To: &to, PaymentMethod: &cash})
	require.NoError(t, err)
	assert.Equal(t, 7, cut.SalesCount)
	assert.Equal(t, "1650", cut.Total.String())
	assert.Equal(t, "1350", cut.ByMethod[enum.PaymentCash].String())
	assert.Equal(t, &cash, reports.filter.PaymentMethod)

	_, err = svc.CashCut(context.Background(), adminSession, entity.CashCutFilter{From: &to, To: &from})
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	reports.err = errors.New("timeout")
	_, err = svc.CashCut(context.Background(), adminSession, entity.CashCutFilter{})
	assert.Equal(t, 502, apperror.GetAppError(err).Code)
}

func TestReportService_ExportCashCutXLSX(t *testing.T) {
	svc, _ := newReportFixture(t)

	file, err := svc.ExportCashCut(context.Background(), adminSession, entity.CashCutFilter{}, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "corte_caja.xlsx", file.FileName)
	assert.Equal(t, xlsxContentType, file.ContentType)

	book, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Reporte")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Fecha", "Forma de Pago", "Usuario", "Cantidad Ventas", "Total"}, rows[0])
	assert.Equal(t, []string{"2025-03-01", "Efectivo", "Ana", "4", "1250.5"}, rows[1])
	assert.Equal(t, []string{"TOTAL", "", "", "7", "1650"}, rows[4])
}

func TestReportService_ExportCashCutPDF(t *testing.T) {
	svc, _ := newReportFixture(t)

	file, err := svc.ExportCashCut(context.Background(), adminSession, entity.CashCutFilter{}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "corte_caja.pdf", file.FileName)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
	assert.Equal(t, 1, file.Pages)
}

func TestReportService_ExportRejectsFormat(t *testing.T) {
	svc, _ := newReportFixture(t)

	_, err := svc.ExportCashCut(context.Background(), adminSession, entity.CashCutFilter{}, "csv")
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
	_, err = svc.ExportInventory(context.Background(), adminSession, entity.InventoryFilter{}, "doc")
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestReportService_ExportInventory(t *testing.T) {
	svc, _ := newReportFixture(t, inventoryCatalog()...)

	file, err := svc.ExportInventory(context.Background(), adminSession, entity.InventoryFilter{Location: "Bodega"}, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "inventario_2025-03-04.xlsx", file.FileName)

	book, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Inventario")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Código", rows[0][0])
	assert.Equal(t, []string{"A", "Producto A", "Frío SA", "Bodega", "5", "0", "5", "10"}, rows[1])

	pdf, err := svc.ExportInventory(context.Background(), adminSession, entity.InventoryFilter{}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "inventario_2025-03-04.pdf", pdf.FileName)
	assert.True(t, bytes.HasPrefix(pdf.Content, []byte("%PDF")))
}

func TestReportService_ExportEmptyInventory(t *testing.T) {
	svc, _ := newReportFixture(t, inventoryCatalog()...)

	_, err := svc.ExportInventory(context.Background(), adminSession, entity.InventoryFilter{Search: "compresor"}, FormatXLSX)
	require.Error(t, err)
	assert.Equal(t, "No hay datos para exportar", apperror.GetAppError(err).Message)
}
