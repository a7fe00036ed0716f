package handler

import (
	"github.com/climasgama/pos-terminal/internal/application/service"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/request"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the product snapshot to the counter
type CatalogHandler struct {
	catalogService *service.CatalogService
	maxResults     int
}

// NewCatalogHandler creates a new catalog handler. maxResults caps searches
// that do not ask for a limit.
func NewCatalogHandler(catalogService *service.CatalogService, maxResults int) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, maxResults: maxResults}
}

type catalogPayload struct {
	Version  uint64           `json:"version"`
	Products []entity.Product `json:"products"`
}

// List handles reading the whole catalog snapshot
func (h *CatalogHandler) List(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	products, version, err := h.catalogService.Products(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog retrieved successfully", catalogPayload{Version: version, Products: products})
}

// Refresh handles reloading the catalog from the backend
func (h *CatalogHandler) Refresh(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	products, version, err := h.catalogService.Refresh(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog refreshed", catalogPayload{Version: version, Products: products})
}

// Search handles the AND-word search box
func (h *CatalogHandler) Search(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var q request.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	limit := q.Limit
	if limit == 0 {
		limit = h.maxResults
	}

	products, err := h.catalogService.Search(c.Request.Context(), session, q.Query, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved successfully", products)
}

// Lookup handles resolving a scanned or typed token to exactly one product
func (h *CatalogHandler) Lookup(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "token is required")
		return
	}

	product, err := h.catalogService.Lookup(c.Request.Context(), session, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product found", product)
}

// Get handles reading one product of the snapshot
func (h *CatalogHandler) Get(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.Product(c.Request.Context(), session, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved successfully", product)
}

// Inventory handles the filtered inventory screen with its totals
func (h *CatalogHandler) Inventory(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var q request.InventoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.catalogService.Inventory(c.Request.Context(), session, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Inventory retrieved successfully", view)
}
