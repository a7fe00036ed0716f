package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/climasgama/pos-terminal/internal/domain/repository"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/climasgama/pos-terminal/pkg/textnorm"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Resolve finds the single product a scanned or typed token refers to.
// An exact code or barcode hit wins. Otherwise every word of the token must
// appear in the product's code, barcode or description.
func Resolve(token string, catalog []entity.Product) (*entity.Product, error) {
	if textnorm.Normalize(token) == "" {
		return nil, apperror.NewNotFoundError("Producto")
	}

	for i := range catalog {
		if catalog[i].MatchesCode(token) {
			p := catalog[i]
			return &p, nil
		}
	}

	matches := FilterProducts(catalog, token)
	switch len(matches) {
	case 0:
		return nil, apperror.NewNotFoundError("Producto")
	case 1:
		return &matches[0], nil
	default:
		return nil, apperror.NewAmbiguousError(token, len(matches))
	}
}

// FilterProducts keeps the products whose search text contains every word of query.
func FilterProducts(catalog []entity.Product, query string) []entity.Product {
	out := make([]entity.Product, 0)
	for _, p := range catalog {
		if textnorm.MatchesAll(p.SearchText(), query) {
			out = append(out, p)
		}
	}
	return out
}

// CatalogService keeps the current catalog snapshot. The snapshot is fetched
// wholesale and replaced, never patched.
type CatalogService struct {
	gateway repository.CatalogGateway
	cache   repository.CatalogCache
	maxAge  time.Duration
	logger  *logrus.Logger

	mu        sync.RWMutex
	products  []entity.Product
	byID      map[int64]int
	version   uint64
	fetchedAt time.Time
	stale     bool

	view *CatalogView
}

// NewCatalogService creates a new catalog service
func NewCatalogService(gateway repository.CatalogGateway, cache repository.CatalogCache, maxAge time.Duration) *CatalogService {
	return &CatalogService{
		gateway: gateway,
		cache:   cache,
		maxAge:  maxAge,
		logger:  config.GetLogger(),
		view:    NewCatalogView(),
	}
}

// Products returns the snapshot and its version, loading it when missing or stale.
func (s *CatalogService) Products(ctx context.Context, session entity.Session) ([]entity.Product, uint64, error) {
	s.mu.RLock()
	fresh := s.products != nil && !s.stale && (s.maxAge <= 0 || time.Since(s.fetchedAt) < s.maxAge)
	products, version := s.products, s.version
	s.mu.RUnlock()
	if fresh {
		return products, version, nil
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			config.LogError(s.logger, "CatalogService", "Products", "catalog cache read failed", nil, err)
		} else if ok {
			return s.replace(cached), s.Version(), nil
		}
	}
	if err := s.fetch(ctx, session); err != nil {
		return nil, 0, err
	}
	return s.Snapshot()
}

// Refresh fetches the catalog from the backend, bypassing every cache.
func (s *CatalogService) Refresh(ctx context.Context, session entity.Session) ([]entity.Product, uint64, error) {
	if err := s.fetch(ctx, session); err != nil {
		return nil, 0, err
	}
	return s.Snapshot()
}

func (s *CatalogService) fetch(ctx context.Context, session entity.Session) error {
	products, err := s.gateway.ListProducts(ctx, session)
	if err != nil {
		config.LogError(s.logger, "CatalogService", "fetch", "catalog fetch failed", session.UserID, err)
		return apperror.NewUpstreamError("No se pudo cargar el catálogo", err)
	}
	s.replace(products)

	if s.cache != nil {
		if err := s.cache.Set(ctx, products, s.maxAge); err != nil {
			config.LogError(s.logger, "CatalogService", "fetch", "catalog cache write failed", nil, err)
		}
	}
	s.logger.WithFields(logrus.Fields{"products": len(products), "version": s.Version()}).Debug("catalog refreshed")
	return nil
}

func (s *CatalogService) replace(products []entity.Product) []entity.Product {
	byID := make(map[int64]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.byID = byID
	s.version++
	s.fetchedAt = time.Now()
	s.stale = false
	return products
}

// Invalidate marks the snapshot stale after stock changed upstream. The next
// read fetches again; the old snapshot stays usable for StockOf meanwhile.
func (s *CatalogService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			config.LogError(s.logger, "CatalogService", "Invalidate", "catalog cache invalidation failed", nil, err)
		}
	}
}

// Snapshot returns what is loaded without touching the backend.
func (s *CatalogService) Snapshot() ([]entity.Product, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.products == nil {
		return nil, 0, apperror.NewNotFoundError("Catálogo")
	}
	return s.products, s.version, nil
}

func (s *CatalogService) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// StockOf reports the last known stock of a product.
func (s *CatalogService) StockOf(productID int64) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[productID]
	if !ok {
		return 0, false
	}
	return s.products[i].StockQuantity, true
}

// Product returns one product of the snapshot by id.
func (s *CatalogService) Product(ctx context.Context, session entity.Session, productID int64) (*entity.Product, error) {
	if _, _, err := s.Products(ctx, session); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[productID]
	if !ok {
		return nil, apperror.NewNotFoundError("Producto")
	}
	p := s.products[i]
	return &p, nil
}

// Lookup resolves a token against the current snapshot.
func (s *CatalogService) Lookup(ctx context.Context, session entity.Session, token string) (*entity.Product, error) {
	products, _, err := s.Products(ctx, session)
	if err != nil {
		return nil, err
	}
	return Resolve(token, products)
}

// Search filters the snapshot. limit <= 0 means no limit.
func (s *CatalogService) Search(ctx context.Context, session entity.Session, query string, limit int) ([]entity.Product, error) {
	products, _, err := s.Products(ctx, session)
	if err != nil {
		return nil, err
	}
	out := FilterProducts(products, query)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Inventory returns the memoized inventory view for filter.
func (s *CatalogService) Inventory(ctx context.Context, session entity.Session, filter entity.InventoryFilter) (*entity.InventoryView, error) {
	products, version, err := s.Products(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.view.View(products, version, filter), nil
}

// CatalogView memoizes the inventory screen's derived lists. It recomputes only
// when the snapshot version or the filter changes.
type CatalogView struct {
	mu       sync.Mutex
	version  uint64
	filter   entity.InventoryFilter
	result   *entity.InventoryView
	computed int
}

func NewCatalogView() *CatalogView {
	return &CatalogView{}
}

// View returns the cached view when inputs are unchanged. The returned view
// is shared and must not be modified.
func (v *CatalogView) View(products []entity.Product, version uint64, filter entity.InventoryFilter) *entity.InventoryView {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.result != nil && v.version == version && v.filter == filter {
		return v.result
	}
	v.result = buildInventoryView(products, version, filter)
	v.version = version
	v.filter = filter
	v.computed++
	return v.result
}

func buildInventoryView(products []entity.Product, version uint64, filter entity.InventoryFilter) *entity.InventoryView {
	view := &entity.InventoryView{
		Products:      make([]entity.Product, 0),
		Suppliers:     uniqueSorted(products, func(p entity.Product) string { return p.Supplier }),
		Locations:     uniqueSorted(products, func(p entity.Product) string { return p.Location }),
		PurchaseTotal: decimal.Zero,
		SaleTotal:     decimal.Zero,
		Version:       version,
	}

	for _, p := range products {
		if filter.Supplier != "" && p.Supplier != filter.Supplier {
			continue
		}
		if filter.Location != "" && p.Location != filter.Location {
			continue
		}
		switch filter.Stock {
		case enum.StockLow:
			if !p.IsLowStock() {
				continue
			}
		case enum.StockZero:
			if !p.IsOutOfStock() {
				continue
			}
		}
		if !textnorm.MatchesAll(p.SearchText(), filter.Search) {
			continue
		}

		view.Products = append(view.Products, p)
		view.PurchaseTotal = view.PurchaseTotal.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.MissingStock))))
		view.SaleTotal = view.SaleTotal.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}
	return view
}

func uniqueSorted(products []entity.Product, field func(entity.Product) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		v := field(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
