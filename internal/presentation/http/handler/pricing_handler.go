package handler

import (
	"github.com/climasgama/pos-terminal/internal/application/service"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/request"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PricingHandler handles margin ranges and the price calculator
type PricingHandler struct {
	pricingService *service.PricingService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingService *service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// List handles listing the margin ranges ordered by lower bound
func (h *PricingHandler) List(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	ranges, err := h.pricingService.List(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Margin ranges retrieved successfully", ranges)
}

// Create handles adding a margin range
func (h *PricingHandler) Create(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.MarginRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.pricingService.Create(c.Request.Context(), session, req.ToEntity(0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Margin range created successfully", created)
}

// Update handles replacing a margin range
func (h *PricingHandler) Update(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.MarginRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.pricingService.Update(c.Request.Context(), session, req.ToEntity(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Margin range updated successfully", updated)
}

// Delete handles removing a margin range
func (h *PricingHandler) Delete(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.pricingService.Delete(c.Request.Context(), session, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Suggest handles the price calculator
func (h *PricingHandler) Suggest(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var q request.SuggestPriceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	cost, err := decimal.NewFromString(q.Cost)
	if err != nil {
		response.BadRequest(c, "cost must be a number")
		return
	}

	suggestion, err := h.pricingService.Suggest(c.Request.Context(), session, cost)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Price suggested", suggestion)
}
