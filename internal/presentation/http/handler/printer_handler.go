package handler

import (
	"github.com/climasgama/pos-terminal/internal/application/service"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/request"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService   *service.PrinterService
	saleService      *service.SaleService
	quotationService *service.QuotationService
	receiptService   *service.ReceiptService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(
	printerService *service.PrinterService,
	saleService *service.SaleService,
	quotationService *service.QuotationService,
	receiptService *service.ReceiptService,
) *PrinterHandler {
	return &PrinterHandler{
		printerService:   printerService,
		saleService:      saleService,
		quotationService: quotationService,
		receiptService:   receiptService,
	}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test ticket to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	receipt, err := h.printerService.TestPrint(c.Request.Context(), session)
	if err != nil {
		// Return the receipt data anyway (useful when printer type is "none")
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{
		"receipt": receipt,
	})
}

// PrintReceipt prints the receipt of a sale or a quotation.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	var receipt *entity.Receipt

	switch req.Type {
	case "sale":
		r, err := h.saleService.Receipt(ctx, session, req.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		receipt = r
	case "quotation":
		q, err := h.quotationService.Get(ctx, session, req.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		receipt = h.receiptService.FromQuotation(q)
	}

	printed(c, h.printerService, receipt)
}

// printed sends receipt to the printer. A printing failure still answers 200
// with the receipt so the counter can show it on screen.
func printed(c *gin.Context, printerService *service.PrinterService, receipt *entity.Receipt) {
	if err := printerService.Print(c.Request.Context(), receipt); err != nil {
		response.OK(c, "Receipt generated but printing failed", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}
