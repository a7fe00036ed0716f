package handler

import (
	"github.com/climasgama/pos-terminal/internal/application/service"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/request"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// List handles listing quotations
func (h *QuotationHandler) List(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var q request.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.quotationService.List(c.Request.Context(), session, &service.ListQuotationsInput{
		Search:     q.Search,
		Pagination: pageParams(q.Page, q.PerPage),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Quotations retrieved successfully", result)
}

// Get handles getting a single quotation
func (h *QuotationHandler) Get(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	quotation, err := h.quotationService.Get(c.Request.Context(), session, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Save handles saving a quotation cart. A cart opened from an existing
// quotation updates it, any other creates a new one.
func (h *QuotationHandler) Save(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	saved, err := h.quotationService.Save(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation saved successfully", saved)
}

// Open handles loading a quotation into a new cart for editing
func (h *QuotationHandler) Open(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	view, err := h.quotationService.Open(c.Request.Context(), session, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation opened", view)
}

// Delete handles deleting a quotation
func (h *QuotationHandler) Delete(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), session, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation deleted successfully", nil)
}

// Export handles downloading quotation_<id>.pdf
func (h *QuotationHandler) Export(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	file, err := h.quotationService.Export(c.Request.Context(), session, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}
