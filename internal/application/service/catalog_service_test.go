package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/climasgama/pos-terminal/internal/infrastructure/repository"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupCatalog() []entity.Product {
	cafe := testProduct(1, "CAF-01", "Café molido 500g", "85", 4)
	cafe.Barcode = "7501234567890"
	return []entity.Product{
		cafe,
		testProduct(2, "CAF-02", "Café en grano 1kg", "160", 2),
		testProduct(3, "TUB-12", "Tubo de cobre 1/2", "120", 30),
		testProduct(4, "TUB-34", "Tubo de cobre 3/4", "180", 0),
		testProduct(5, "GAS-R410", "Gas refrigerante R410A", "950", 6),
	}
}

func TestResolve(t *testing.T) {
	catalog := lookupCatalog()

	tests := []struct {
		name   string
		token  string
		wantID int64
		reason apperror.Reason
	}{
		{"exact code", "CAF-02", 2, ""},
		{"code ignores case", "tub-12", 3, ""},
		{"barcode", "7501234567890", 1, ""},
		{"single search hit", "refrigerante", 5, ""},
		{"accents ignored", "cafe molido", 1, ""},
		{"words in any order", "3/4 cobre", 4, ""},
		{"several hits", "café", 0, apperror.ReasonAmbiguous},
		{"no hit", "compresor", 0, apperror.ReasonNotFound},
		{"blank", "   ", 0, apperror.ReasonNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(tt.token, catalog)
			if tt.reason != "" {
				require.Error(t, err)
				assert.True(t, apperror.HasReason(err, tt.reason))
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID)
		})
	}
}

func TestResolve_ExactCodeBeatsSearch(t *testing.T) {
	catalog := []entity.Product{
		testProduct(1, "TUB", "Tubo flexible", "10", 1),
		testProduct(2, "TUB-2", "Tubo rígido", "10", 1),
	}
	p, err := Resolve("tub", catalog)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
}

func TestFilterProducts(t *testing.T) {
	catalog := lookupCatalog()
	assert.Len(t, FilterProducts(catalog, "tubo"), 2)
	assert.Len(t, FilterProducts(catalog, ""), len(catalog))
	assert.Empty(t, FilterProducts(catalog, "tubo grano"))
}

func TestCatalogService_CachesSnapshot(t *testing.T) {
	gw := &fakeCatalog{products: lookupCatalog()}
	svc := NewCatalogService(gw, nil, time.Minute)
	ctx := context.Background()

	products, v1, err := svc.Products(ctx, testSession)
	require.NoError(t, err)
	assert.Len(t, products, 5)

	_, v2, err := svc.Products(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, gw.Calls())

	_, v3, err := svc.Refresh(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.Calls())
	assert.Greater(t, v3, v2)
}

func TestCatalogService_Invalidate(t *testing.T) {
	gw := &fakeCatalog{products: lookupCatalog()}
	svc := NewCatalogService(gw, nil, time.Hour)
	ctx := context.Background()

	_, _, err := svc.Products(ctx, testSession)
	require.NoError(t, err)

	svc.Invalidate(ctx)
	stock, ok := svc.StockOf(1)
	assert.True(t, ok, "stale snapshot still answers stock")
	assert.Equal(t, 4, stock)

	gw.products[0].StockQuantity = 1
	_, _, err = svc.Products(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.Calls())
	stock, _ = svc.StockOf(1)
	assert.Equal(t, 1, stock)
}

func TestCatalogService_SharedCache(t *testing.T) {
	cache := repository.NewMemoryCatalogCache()
	gw := &fakeCatalog{products: lookupCatalog()}
	ctx := context.Background()

	first := NewCatalogService(gw, cache, time.Minute)
	_, _, err := first.Products(ctx, testSession)
	require.NoError(t, err)

	second := NewCatalogService(gw, cache, time.Minute)
	products, _, err := second.Products(ctx, testSession)
	require.NoError(t, err)
	assert.Len(t, products, 5)
	assert.Equal(t, 1, gw.Calls(), "second terminal reads the shared snapshot")

	first.Invalidate(ctx)
	_, _, err = second.Refresh(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.Calls())
}

func TestCatalogService_UpstreamError(t *testing.T) {
	gw := &fakeCatalog{err: errors.New("dial tcp: refused")}
	svc := NewCatalogService(gw, nil, time.Minute)

	_, _, err := svc.Products(context.Background(), testSession)
	require.Error(t, err)
	assert.Equal(t, 502, apperror.GetAppError(err).Code)

	_, _, err = svc.Snapshot()
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestCatalogService_ProductAndSearch(t *testing.T) {
	gw := &fakeCatalog{products: lookupCatalog()}
	svc := NewCatalogService(gw, nil, time.Minute)
	ctx := context.Background()

	p, err := svc.Product(ctx, testSession, 5)
	require.NoError(t, err)
	assert.Equal(t, "GAS-R410", p.Code)

	_, err = svc.Product(ctx, testSession, 99)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	found, err := svc.Search(ctx, testSession, "cafe", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	p, err = svc.Lookup(ctx, testSession, "7501234567890")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
}

func inventoryCatalog() []entity.Product {
	mk := func(id int64, code string, stock, missing int, supplier, location string) entity.Product {
		p := testProduct(id, code, "Producto "+code, "10", stock)
		p.MissingStock = missing
		p.Supplier = supplier
		p.Location = location
		return p
	}
	return []entity.Product{
		mk(1, "A", 5, 0, "Frío SA", "Bodega"),
		mk(2, "B", 2, 3, "Frío SA", "Mostrador"),
		mk(3, "C", 0, 4, "Cobre MX", "Bodega"),
		mk(4, "D", 1, 1, "", ""),
	}
}

func TestCatalogView_Filters(t *testing.T) {
	products := inventoryCatalog()

	all := buildInventoryView(products, 1, entity.InventoryFilter{})
	assert.Len(t, all.Products, 4)
	assert.Equal(t, []string{"Cobre MX", "Frío SA"}, all.Suppliers)
	assert.Equal(t, []string{"Bodega", "Mostrador"}, all.Locations)
	// 5 * (3+4+1) missing units at purchase price 5
	assert.Equal(t, "40", all.PurchaseTotal.String())
	// (5+2+0+1) units in stock at sale price 10
	assert.Equal(t, "80", all.SaleTotal.String())

	low := buildInventoryView(products, 1, entity.InventoryFilter{Stock: enum.StockLow})
	assert.Len(t, low.Products, 2)

	zero := buildInventoryView(products, 1, entity.InventoryFilter{Stock: enum.StockZero})
	require.Len(t, zero.Products, 1)
	assert.Equal(t, "C", zero.Products[0].Code)

	narrowed := buildInventoryView(products, 1, entity.InventoryFilter{Supplier: "Frío SA", Location: "Mostrador"})
	require.Len(t, narrowed.Products, 1)
	assert.Equal(t, "B", narrowed.Products[0].Code)
	assert.Equal(t, all.Suppliers, narrowed.Suppliers, "option lists come from the whole catalog")

	searched := buildInventoryView(products, 1, entity.InventoryFilter{Search: "a"})
	require.Len(t, searched.Products, 1)
	assert.Equal(t, "A", searched.Products[0].Code)
}

func TestCatalogView_Memoized(t *testing.T) {
	v := NewCatalogView()
	products := inventoryCatalog()
	filter := entity.InventoryFilter{Stock: enum.StockLow}

	first := v.View(products, 1, filter)
	second := v.View(products, 1, filter)
	assert.Same(t, first, second)
	assert.Equal(t, 1, v.computed)

	v.View(products, 1, entity.InventoryFilter{})
	assert.Equal(t, 2, v.computed)

	v.View(products, 2, entity.InventoryFilter{})
	assert.Equal(t, 3, v.computed)
}

func TestCatalogService_Inventory(t *testing.T) {
	gw := &fakeCatalog{products: inventoryCatalog()}
	svc := NewCatalogService(gw, nil, time.Minute)
	ctx := context.Background()

	view, err := svc.Inventory(ctx, testSession, entity.InventoryFilter{Location: "Bodega"})
	require.NoError(t, err)
	assert.Len(t, view.Products, 2)
	assert.Equal(t, svc.Version(), view.Version)

	again, err := svc.Inventory(ctx, testSession, entity.InventoryFilter{Location: "Bodega"})
	require.NoError(t, err)
	assert.Same(t, view, again)
}
