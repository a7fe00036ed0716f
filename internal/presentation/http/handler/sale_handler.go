package handler

import (
	"github.com/climasgama/pos-terminal/internal/application/service"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/request"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// SaleHandler handles past sales: history, reprint and export
type SaleHandler struct {
	saleService    *service.SaleService
	receiptService *service.ReceiptService
	printerService *service.PrinterService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, receiptService *service.ReceiptService, printerService *service.PrinterService) *SaleHandler {
	return &SaleHandler{
		saleService:    saleService,
		receiptService: receiptService,
		printerService: printerService,
	}
}

// List handles the sale history
func (h *SaleHandler) List(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var q request.SaleHistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.saleService.History(c.Request.Context(), session, filter, pageParams(q.Page, q.PerPage))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles reading one sale with its lines
func (h *SaleHandler) Get(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.Get(c.Request.Context(), session, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", sale)
}

// ReceiptPDF handles downloading sale_<id>.pdf
func (h *SaleHandler) ReceiptPDF(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.saleService.Receipt(c.Request.Context(), session, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.receiptService.Render(receipt)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}

// Print handles reprinting a sale on the thermal printer
func (h *SaleHandler) Print(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.saleService.Receipt(c.Request.Context(), session, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	printed(c, h.printerService, receipt)
}
