package handler

import (
	"github.com/climasgama/pos-terminal/internal/application/service"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/request"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles the admin reports and their exports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func exportFormat(format string) string {
	if format == "" {
		return service.FormatXLSX
	}
	return format
}

// CashCut handles the corte de caja report
func (h *ReportHandler) CashCut(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var q request.CashCutQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		response.Error(c, err)
		return
	}

	cut, err := h.reportService.CashCut(c.Request.Context(), session, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cash cut retrieved successfully", cut)
}

// ExportCashCut handles downloading corte_caja.xlsx or corte_caja.pdf
func (h *ReportHandler) ExportCashCut(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var q request.CashCutQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.reportService.ExportCashCut(c.Request.Context(), session, filter, exportFormat(q.Format))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}

// ExportInventory handles downloading inventario_<date>.xlsx or .pdf
func (h *ReportHandler) ExportInventory(c *gin.Context) {
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

	file, err := h.reportService.ExportInventory(c.Request.Context(), session, filter, exportFormat(q.Format))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}
