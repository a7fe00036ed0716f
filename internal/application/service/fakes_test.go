package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/infrastructure/repository"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/climasgama/pos-terminal/pkg/layout"
	"github.com/shopspring/decimal"
)

var testSession = entity.Session{Token: "tok", UserID: 7, Username: "caja1", Name: "Ana López", Role: "ventas"}

var errNotFoundUpstream = fmt.Errorf("%w: GET 404", apperror.ErrNotFound)

var adminSession = entity.Session{Token: "tok", UserID: 1, Username: "admin", Name: "Admin", Role: entity.RoleAdmin}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testProduct(id int64, code, desc, price string, stock int) entity.Product {
	return entity.Product{
		ID:            id,
		Code:          code,
		Description:   desc,
		UnitPrice:     dec(price),
		PurchasePrice: dec(price).Div(decimal.NewFromInt(2)),
		StockQuantity: stock,
	}
}

type fakeCatalog struct {
	mu       sync.Mutex
	products []entity.Product
	err      error
	calls    int
}

func (f *fakeCatalog) ListProducts(ctx context.Context, session entity.Session) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entity.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeCatalog) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSales struct {
	mu          sync.Mutex
	nextID      int64
	createErr   error
	detailErr   error
	listErr     error
	requests    []entity.SaleRequest
	lines       map[int64][]entity.SaleLine
	summaries   []entity.SaleSummary
	createDelay chan struct{}
}

func newFakeSales() *fakeSales {
	return &fakeSales{nextID: 100, lines: make(map[int64][]entity.SaleLine)}
}

func (f *fakeSales) CreateSale(ctx context.Context, session entity.Session, req entity.SaleRequest) (int64, error) {
	if f.createDelay != nil {
		<-f.createDelay
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeSales) GetSaleLines(ctx context.Context, session entity.Session, saleID int64) ([]entity.SaleLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.lines[saleID], nil
}

func (f *fakeSales) ListSales(ctx context.Context, session entity.Session) ([]entity.SaleSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.summaries, nil
}

func (f *fakeSales) CreateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeQuotations struct {
	nextID    int64
	created   []entity.QuotationRequest
	updated   map[int64]entity.QuotationRequest
	deleted   []int64
	stored    map[int64]*entity.Quotation
	summaries []entity.QuotationSummary
	err       error
}

func newFakeQuotations() *fakeQuotations {
	return &fakeQuotations{
		nextID:  10,
		updated: make(map[int64]entity.QuotationRequest),
		stored:  make(map[int64]*entity.Quotation),
	}
}

func (f *fakeQuotations) CreateQuotation(ctx context.Context, session entity.Session, req entity.QuotationRequest) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.created = append(f.created, req)
	f.stored[f.nextID] = quotationFromRequest(f.nextID, session, req)
	return f.nextID, nil
}

func (f *fakeQuotations) UpdateQuotation(ctx context.Context, session entity.Session, id int64, req entity.QuotationRequest) error {
	if f.err != nil {
		return f.err
	}
	f.updated[id] = req
	f.stored[id] = quotationFromRequest(id, session, req)
	return nil
}

func (f *fakeQuotations) GetQuotation(ctx context.Context, session entity.Session, id int64) (*entity.Quotation, error) {
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.stored[id]
	if !ok {
		return nil, errNotFoundUpstream
	}
	return q, nil
}

func (f *fakeQuotations) ListQuotations(ctx context.Context, session entity.Session) ([]entity.QuotationSummary, error) {
	return f.summaries, f.err
}

func (f *fakeQuotations) DeleteQuotation(ctx context.Context, session entity.Session, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func quotationFromRequest(id int64, session entity.Session, req entity.QuotationRequest) *entity.Quotation {
	q := &entity.Quotation{
		ID:            id,
		Customer:      req.Customer,
		Date:          time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		PaymentMethod: req.PaymentMethod,
		Seller:        session.DisplayName(),
	}
	for _, it := range req.Items {
		q.Lines = append(q.Lines, entity.QuotationLine{
			ProductID:   it.ProductID,
			Description: "P" + strconv.FormatInt(it.ProductID, 10),
			UnitPrice:   decimal.NewFromInt(10),
			Quantity:    it.Quantity,
		})
	}
	return q
}

func testReceiptConfig() *config.ReceiptConfig {
	return &config.ReceiptConfig{
		BusinessName: "CLIMAS GAMA",
		AddressLines: []string{"Prol. Av. Juárez #435, Tinajas", "Cuajimalpa de Morelos", "05360 Ciudad de México, CDMX"},
		Notice:       "NO SE ACEPTAN CAMBIOS NI DEVOLUCIONES",
		Thanks:       "¡Gracias por su compra!",
		ContactLines: []string{"Si requiere factura, enviar ticket", "y CSF al WhatsApp:", "5569700587"},
		Customer:     "Público en General",
		TimeZone:     "UTC",
	}
}

var testMeasurer = layout.MonoMeasurer{Ratio: 0.5}

// fixture wires the sale path with in-memory collaborators.
type fixture struct {
	catalogGW *fakeCatalog
	salesGW   *fakeSales
	catalog   *CatalogService
	carts     *CartService
	receipts  *ReceiptService
	sales     *SaleService
	locker    *lockerSpy
}

type lockerSpy struct {
	inner interface {
		Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
	}
	keys []string
}

func (l *lockerSpy) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	l.keys = append(l.keys, key)
	return l.inner.Acquire(ctx, key, ttl)
}

func newFixture(t *testing.T, products ...entity.Product) *fixture {
	t.Helper()
	f := &fixture{
		catalogGW: &fakeCatalog{products: products},
		salesGW:   newFakeSales(),
		locker:    &lockerSpy{inner: repository.NewMemoryLocker()},
	}
	f.catalog = NewCatalogService(f.catalogGW, nil, time.Minute)
	f.carts = NewCartService(f.catalog)
	f.receipts = NewReceiptService(testReceiptConfig(), testMeasurer, nil)
	f.sales = NewSaleService(f.carts, f.catalog, f.salesGW, f.locker, 5*time.Second, f.receipts, nil)
	f.sales.now = func() time.Time { return time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC) }
	return f
}
