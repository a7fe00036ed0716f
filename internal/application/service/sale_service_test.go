package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/climasgama/pos-terminal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTicket fills a sale cart with the given product ids, one scan each.
func openTicket(t *testing.T, f *fixture, ids ...int64) string {
	t.Helper()
	view := f.carts.Create(testSession, entity.CartKindSale)
	for _, id := range ids {
		_, err := f.carts.AddProduct(context.Background(), testSession, view.Cart.ID, id)
		require.NoError(t, err)
	}
	return view.Cart.ID
}

func TestSubmitCashSale(t *testing.T) {
	f := newFixture(t,
		testProduct(1, "A-1", "Producto A", "10", 10),
		testProduct(2, "B-1", "Producto B", "25", 10),
	)
	ctx := context.Background()
	cartID := openTicket(t, f, 1, 2)
	_, err := f.carts.SetQuantity(testSession, cartID, 1, "3")
	require.NoError(t, err)
	_, err = f.carts.SetPayment(testSession, cartID, enum.PaymentCash, decPtr("100"))
	require.NoError(t, err)

	f.salesGW.lines[101] = []entity.SaleLine{
		{Description: "Producto A", Quantity: 3, UnitPrice: dec("10")},
		{Description: "Producto B", Quantity: 1, UnitPrice: dec("25")},
	}

	res, err := f.sales.Submit(ctx, testSession, cartID)
	require.NoError(t, err)

	assert.True(t, res.Canonical)
	assert.Equal(t, int64(101), res.Sale.ID)
	assert.True(t, res.Payment.IsValid)
	assert.Equal(t, "45", res.Payment.Change.String())
	require.NotNil(t, res.Receipt.Change)
	assert.Equal(t, "45", res.Receipt.Change.String())
	assert.Equal(t, "Ana López", res.Receipt.Seller)
	assert.Equal(t, "Público en General", res.Receipt.Customer)

	lines := f.receipts.Layout(res.Receipt).Lines()
	assert.Contains(t, lines, "TOTAL: $55.00")
	assert.Contains(t, lines, "CINCUENTA Y CINCO PESOS 00/100 M.N.")
	assert.Contains(t, lines, "Efectivo: $100.00")
	assert.Contains(t, lines, "Cambio: $45.00")
	assert.Contains(t, lines, "Fecha: 01/03/2025 V_ID: 101")

	require.Equal(t, 1, f.salesGW.CreateCalls())
	req := f.salesGW.requests[0]
	assert.Equal(t, enum.PaymentCash, req.PaymentMethod)
	assert.Equal(t, int64(7), req.UserID)
	assert.Equal(t, []entity.SaleItem{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 1}}, req.Items)
	assert.Equal(t, []string{"submit:" + cartID}, f.locker.keys)

	after, err := f.carts.Summary(testSession, cartID)
	require.NoError(t, err)
	assert.True(t, after.Cart.IsEmpty())
	assert.Nil(t, after.Cart.AmountTendered)
}

func TestSubmitInsufficientCash(t *testing.T) {
	f := newFixture(t,
		testProduct(1, "A-1", "Producto A", "10", 10),
		testProduct(2, "B-1", "Producto B", "25", 10),
	)
	cartID := openTicket(t, f, 1, 2)
	_, err := f.carts.SetQuantity(testSession, cartID, 1, "3")
	require.NoError(t, err)
	_, err = f.carts.SetPayment(testSession, cartID, enum.PaymentCash, decPtr("40"))
	require.NoError(t, err)
	before, err := f.carts.Get(testSession, cartID)
	require.NoError(t, err)

	_, err = f.sales.Submit(context.Background(), testSession, cartID)
	require.Error(t, err)
	assert.True(t, apperror.HasReason(err, apperror.ReasonInsufficientPayment))
	assert.Contains(t, err.Error(), "$15.00")
	assert.Equal(t, 0, f.salesGW.CreateCalls())

	after, err := f.carts.Get(testSession, cartID)
	require.NoError(t, err)
	assert.Equal(t, before.Lines, after.Lines)
	assert.Equal(t, "40", after.AmountTendered.String())
}

func TestSubmitInsufficientStock(t *testing.T) {
	f := newFixture(t, testProduct(3, "C-1", "Producto C", "8", 2))
	cartID := openTicket(t, f, 3)
	_, err := f.carts.SetQuantity(testSession, cartID, 3, "5")
	require.NoError(t, err)
	_, err = f.carts.SetPayment(testSession, cartID, enum.PaymentCredit, nil)
	require.NoError(t, err)

	_, err = f.sales.Submit(context.Background(), testSession, cartID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInsufficientStock))
	appErr := apperror.GetAppError(err)
	assert.Equal(t, "Producto C", appErr.Details["product"])
	assert.Equal(t, 5, appErr.Details["requested"])
	assert.Equal(t, 2, appErr.Details["available"])
	assert.Equal(t, 0, f.salesGW.CreateCalls())
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(t)
	cartID := f.carts.Create(testSession, entity.CartKindSale).Cart.ID

	_, err := f.sales.Submit(context.Background(), testSession, cartID)
	assert.True(t, errors.Is(err, apperror.ErrEmptyCart))
	assert.Equal(t, 0, f.salesGW.CreateCalls())
}

func TestSubmitRejectsQuotationCart(t *testing.T) {
	f := newFixture(t, testProduct(1, "A-1", "Producto A", "10", 10))
	view := f.carts.Create(testSession, entity.CartKindQuotation)
	_, err := f.carts.AddProduct(context.Background(), testSession, view.Cart.ID, 1)
	require.NoError(t, err)

	_, err = f.sales.Submit(context.Background(), testSession, view.Cart.ID)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
	assert.Equal(t, 0, f.salesGW.CreateCalls())
}

func TestSubmitWhileInProgress(t *testing.T) {
	f := newFixture(t, testProduct(1, "A-1", "Producto A", "10", 10))
	cartID := openTicket(t, f, 1)
	_, err := f.carts.SetPayment(testSession, cartID, enum.PaymentDebit, nil)
	require.NoError(t, err)

	release, err := f.locker.inner.Acquire(context.Background(), "submit:"+cartID, time.Minute)
	require.NoError(t, err)

	_, err = f.sales.Submit(context.Background(), testSession, cartID)
	assert.True(t, errors.Is(err, apperror.ErrInProgress))
	assert.Equal(t, 0, f.salesGW.CreateCalls())

	release()
	_, err = f.sales.Submit(context.Background(), testSession, cartID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.salesGW.CreateCalls())
}

func TestSubmitFreezesCartUntilCommitted(t *testing.T) {
	f := newFixture(t,
		testProduct(1, "A-1", "Producto A", "10", 10),
		testProduct(2, "B-1", "Producto B", "25", 10),
	)
	cartID := openTicket(t, f, 1)
	_, err := f.carts.SetPayment(testSession, cartID, enum.PaymentDebit, nil)
	require.NoError(t, err)

	f.salesGW.createDelay = make(chan struct{})
	type outcome struct {
		res *SubmitResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := f.sales.Submit(context.Background(), testSession, cartID)
		done <- outcome{res, err}
	}()

	require.Eventually(t, func() bool {
		f.carts.mu.Lock()
		defer f.carts.mu.Unlock()
		return f.carts.carts[cartID].submitting
	}, time.Second, 5*time.Millisecond)

	// a scan while the sale is in flight is refused, not silently dropped
	_, err = f.carts.AddProduct(context.Background(), testSession, cartID, 2)
	assert.True(t, errors.Is(err, apperror.ErrInProgress))
	_, err = f.carts.SetQuantity(testSession, cartID, 1, "5")
	assert.True(t, errors.Is(err, apperror.ErrInProgress))
	assert.True(t, errors.Is(f.carts.Delete(testSession, cartID), apperror.ErrInProgress))

	close(f.salesGW.createDelay)
	got := <-done
	require.NoError(t, got.err)

	require.Len(t, f.salesGW.requests, 1)
	assert.Equal(t, []entity.SaleItem{{ProductID: 1, Quantity: 1}}, f.salesGW.requests[0].Items)

	after, err := f.carts.Get(testSession, cartID)
	require.NoError(t, err)
	assert.Empty(t, after.Lines)

	// the ticket is open for the next customer
	_, err = f.carts.AddProduct(context.Background(), testSession, cartID, 2)
	require.NoError(t, err)
}

func TestSubmitUnconfirmedIsNotRetryable(t *testing.T) {
	f := newFixture(t, testProduct(1, "A-1", "Producto A", "10", 10))
	cartID := openTicket(t, f, 1)
	_, err := f.carts.SetPayment(testSession, cartID, enum.PaymentDebit, nil)
	require.NoError(t, err)
	f.salesGW.createErr = apperror.NewSubmissionUnconfirmedError(errors.New("no id in response"))

	_, err = f.sales.Submit(context.Background(), testSession, cartID)
	require.Error(t, err)
	assert.True(t, apperror.HasReason(err, apperror.ReasonSubmissionUnconfirmed))
	assert.False(t, errors.Is(err, apperror.ErrSubmissionFailed))
	assert.Contains(t, apperror.GetAppError(err).Message, "historial")

	// the ticket stays as it was so the cashier can compare it with the history
	after, err := f.carts.Get(testSession, cartID)
	require.NoError(t, err)
	assert.Len(t, after.Lines, 1)
}

func TestSubmitUpstreamFailureKeepsCart(t *testing.T) {
	f := newFixture(t, testProduct(1, "A-1", "Producto A", "10", 10))
	cartID := openTicket(t, f, 1, 1)
	_, err := f.carts.SetPayment(testSession, cartID, enum.PaymentCash, decPtr("20"))
	require.NoError(t, err)
	f.salesGW.createErr = errors.New("connection reset")

	_, err = f.sales.Submit(context.Background(), testSession, cartID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrSubmissionFailed))
	assert.Equal(t, 1, f.salesGW.CreateCalls(), "a failed commit is never retried")

	after, err := f.carts.Get(testSession, cartID)
	require.NoError(t, err)
	require.Len(t, after.Lines, 1)
	assert.Equal(t, 2, after.Lines[0].Quantity)
	assert.Equal(t, "20", after.AmountTendered.String())

	// the lock is released, a manual retry goes through
	f.salesGW.createErr = nil
	_, err = f.sales.Submit(context.Background(), testSession, cartID)
	require.NoError(t, err)
}

func TestSubmitWithoutDetailFallsBackToTicket(t *testing.T) {
	f := newFixture(t, testProduct(1, "A-1", "Producto A", "12.50", 10))
	cartID := openTicket(t, f, 1, 1)
	_, err := f.carts.SetPayment(testSession, cartID, enum.PaymentTransfer, nil)
	require.NoError(t, err)
	f.salesGW.detailErr = errors.New("timeout")

	res, err := f.sales.Submit(context.Background(), testSession, cartID)
	require.NoError(t, err)
	assert.False(t, res.Canonical)
	require.Len(t, res.Sale.Lines, 1)
	assert.Equal(t, "Producto A", res.Sale.Lines[0].Description)
	assert.Equal(t, "25", res.Receipt.Total.String())
	assert.Nil(t, res.Receipt.Tendered)

	after, err := f.carts.Get(testSession, cartID)
	require.NoError(t, err)
	assert.True(t, after.IsEmpty(), "a committed ticket cannot be sold twice")
}

func TestSubmitInvalidatesCatalog(t *testing.T) {
	f := newFixture(t, testProduct(1, "A-1", "Producto A", "10", 10))
	cartID := openTicket(t, f, 1)
	_, err := f.carts.SetPayment(testSession, cartID, enum.PaymentCredit, nil)
	require.NoError(t, err)
	calls := f.catalogGW.Calls()

	_, err = f.sales.Submit(context.Background(), testSession, cartID)
	require.NoError(t, err)

	_, _, err = f.catalog.Products(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, calls+1, f.catalogGW.Calls())
}

func TestSubmitOtherUsersCart(t *testing.T) {
	f := newFixture(t, testProduct(1, "A-1", "Producto A", "10", 10))
	cartID := openTicket(t, f, 1)

	_, err := f.sales.Submit(context.Background(), adminSession, cartID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestSaleReceiptReprint(t *testing.T) {
	f := newFixture(t)
	f.salesGW.summaries = []entity.SaleSummary{
		{ID: 40, Date: time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC), Total: dec("30"), PaymentMethod: enum.PaymentDebit, User: "Luis"},
	}
	f.salesGW.lines[40] = []entity.SaleLine{{Description: "Cable", Quantity: 3, UnitPrice: dec("10")}}

	r, err := f.sales.Receipt(context.Background(), testSession, 40)
	require.NoError(t, err)
	assert.Equal(t, "Luis", r.Seller)
	assert.Equal(t, "30", r.Total.String())
	assert.Nil(t, r.Tendered)

	_, err = f.sales.Receipt(context.Background(), testSession, 41)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestSaleHistory(t *testing.T) {
	f := newFixture(t)
	day := func(d int) time.Time { return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC) }
	f.salesGW.summaries = []entity.SaleSummary{
		{ID: 1, Date: day(1), Total: dec("10"), PaymentMethod: enum.PaymentCash, User: "Ana"},
		{ID: 2, Date: day(2), Total: dec("20"), PaymentMethod: enum.PaymentDebit, User: "Luis"},
		{ID: 3, Date: day(2), Total: dec("30"), PaymentMethod: enum.PaymentCash, User: "Ana"},
		{ID: 4, Date: day(5), Total: dec("40"), PaymentMethod: enum.PaymentCash, User: "Beto"},
	}

	t.Run("newest first", func(t *testing.T) {
		res, err := f.sales.History(context.Background(), testSession, entity.SaleHistoryFilter{}, pagination.DefaultPagination())
		require.NoError(t, err)
		ids := make([]int64, 0, len(res.Items))
		for _, s := range res.Items {
			ids = append(ids, s.ID)
		}
		assert.Equal(t, []int64{4, 3, 2, 1}, ids)
	})

	t.Run("filtered", func(t *testing.T) {
		cash := enum.PaymentCash
		from, to := day(1), day(2)
		res, err := f.sales.History(context.Background(), testSession, entity.SaleHistoryFilter{
			Search:        "ana",
			PaymentMethod: &cash,
			From:          &from,
			To:            &to,
		}, pagination.DefaultPagination())
		require.NoError(t, err)
		require.Len(t, res.Items, 2)
		assert.Equal(t, int64(3), res.Items[0].ID)
		assert.Equal(t, int64(1), res.Items[1].ID)
	})

	t.Run("upstream error", func(t *testing.T) {
		f.salesGW.listErr = errors.New("boom")
		defer func() { f.salesGW.listErr = nil }()
		_, err := f.sales.History(context.Background(), testSession, entity.SaleHistoryFilter{}, pagination.DefaultPagination())
		assert.Equal(t, 502, apperror.GetAppError(err).Code)
	})
}
