package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(t *testing.T) (*CartService, *fakeCatalog) {
	t.Helper()
	gw := &fakeCatalog{products: lookupCatalog()}
	return NewCartService(NewCatalogService(gw, nil, time.Minute)), gw
}

func TestCartService_ScanTwiceIncrements(t *testing.T) {
	carts, _ := newCartFixture(t)
	ctx := context.Background()
	id := carts.Create(testSession, entity.CartKindSale).Cart.ID

	_, err := carts.AddByToken(ctx, testSession, id, "7501234567890")
	require.NoError(t, err)
	view, err := carts.AddByToken(ctx, testSession, id, "caf-01")
	require.NoError(t, err)

	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 2, view.Cart.Lines[0].Quantity)
	assert.Equal(t, 2, view.Units)
	assert.Equal(t, "170", view.Total.String())
	assert.False(t, view.Payment.IsValid, "cash with nothing tendered")
}

func TestCartService_AddByTokenErrors(t *testing.T) {
	carts, _ := newCartFixture(t)
	ctx := context.Background()
	id := carts.Create(testSession, entity.CartKindSale).Cart.ID

	_, err := carts.AddByToken(ctx, testSession, id, "cafe")
	assert.True(t, errors.Is(err, apperror.ErrAmbiguous))

	_, err = carts.AddByToken(ctx, testSession, id, "bomba")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	view, err := carts.Summary(testSession, id)
	require.NoError(t, err)
	assert.True(t, view.Cart.IsEmpty())
}

func TestCartService_LinesKeepTheirPrice(t *testing.T) {
	carts, gw := newCartFixture(t)
	ctx := context.Background()
	id := carts.Create(testSession, entity.CartKindSale).Cart.ID

	_, err := carts.AddProduct(ctx, testSession, id, 3)
	require.NoError(t, err)

	gw.products[2].UnitPrice = dec("999")
	_, _, err = carts.catalog.Refresh(ctx, testSession)
	require.NoError(t, err)

	view, err := carts.AddProduct(ctx, testSession, id, 3)
	require.NoError(t, err)
	assert.Equal(t, "120", view.Cart.Lines[0].UnitPrice.String())
	assert.Equal(t, "240", view.Total.String())
}

func TestCartService_SetQuantityAndRemove(t *testing.T) {
	carts, _ := newCartFixture(t)
	ctx := context.Background()
	id := carts.Create(testSession, entity.CartKindSale).Cart.ID
	_, err := carts.AddProduct(ctx, testSession, id, 3)
	require.NoError(t, err)

	for raw, want := range map[string]int{"4": 4, "2.9": 2, "0": 1, "-3": 1, "abc": 1, "": 1} {
		view, err := carts.SetQuantity(testSession, id, 3, raw)
		require.NoError(t, err)
		assert.Equal(t, want, view.Cart.Lines[0].Quantity, "raw %q", raw)
	}

	_, err = carts.SetQuantity(testSession, id, 5, "2")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	view, err := carts.Remove(testSession, id, 3)
	require.NoError(t, err)
	assert.True(t, view.Cart.IsEmpty())

	_, err = carts.Remove(testSession, id, 3)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestCartService_SetPayment(t *testing.T) {
	carts, _ := newCartFixture(t)
	ctx := context.Background()
	id := carts.Create(testSession, entity.CartKindSale).Cart.ID
	_, err := carts.AddProduct(ctx, testSession, id, 1)
	require.NoError(t, err)

	view, err := carts.SetPayment(testSession, id, enum.PaymentCash, decPtr("100"))
	require.NoError(t, err)
	assert.True(t, view.Payment.IsValid)
	assert.Equal(t, "15", view.Payment.Change.String())

	view, err = carts.SetPayment(testSession, id, enum.PaymentCredit, decPtr("100"))
	require.NoError(t, err)
	assert.Nil(t, view.Cart.AmountTendered)
	assert.True(t, view.Payment.IsValid)

	_, err = carts.SetPayment(testSession, id, enum.PaymentMethod(9), nil)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	_, err = carts.SetPayment(testSession, id, enum.PaymentCash, decPtr("-1"))
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCartService_ClearResetsTicket(t *testing.T) {
	carts, _ := newCartFixture(t)
	ctx := context.Background()
	id := carts.Create(testSession, entity.CartKindSale).Cart.ID
	_, err := carts.AddProduct(ctx, testSession, id, 1)
	require.NoError(t, err)
	_, err = carts.SetCustomer(testSession, id, "Taller Ruiz")
	require.NoError(t, err)
	_, err = carts.SetPayment(testSession, id, enum.PaymentCash, decPtr("50"))
	require.NoError(t, err)

	view, err := carts.Clear(testSession, id)
	require.NoError(t, err)
	assert.True(t, view.Cart.IsEmpty())
	assert.Empty(t, view.Cart.Customer)
	assert.Nil(t, view.Cart.AmountTendered)
	assert.Equal(t, enum.PaymentCash, view.Cart.PaymentMethod)
}

func TestCartService_OwnerOnly(t *testing.T) {
	carts, _ := newCartFixture(t)
	id := carts.Create(testSession, entity.CartKindSale).Cart.ID

	_, err := carts.Get(adminSession, id)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.True(t, errors.Is(carts.Delete(adminSession, id), apperror.ErrNotFound))

	require.NoError(t, carts.Delete(testSession, id))
	_, err = carts.Get(testSession, id)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestCartService_GetReturnsCopy(t *testing.T) {
	carts, _ := newCartFixture(t)
	ctx := context.Background()
	id := carts.Create(testSession, entity.CartKindSale).Cart.ID
	_, err := carts.AddProduct(ctx, testSession, id, 1)
	require.NoError(t, err)

	c, err := carts.Get(testSession, id)
	require.NoError(t, err)
	c.Lines[0].Quantity = 50

	again, err := carts.Get(testSession, id)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Lines[0].Quantity)
}

func TestCartService_Sweep(t *testing.T) {
	carts, _ := newCartFixture(t)
	old := carts.Create(testSession, entity.CartKindSale).Cart.ID
	fresh := carts.Create(testSession, entity.CartKindSale).Cart.ID

	carts.mu.Lock()
	carts.carts[old].cart.UpdatedAt = time.Now().Add(-3 * time.Hour)
	carts.mu.Unlock()

	assert.Equal(t, 1, carts.Sweep(time.Hour))
	_, err := carts.Get(testSession, old)
	assert.Error(t, err)
	_, err = carts.Get(testSession, fresh)
	assert.NoError(t, err)
}
