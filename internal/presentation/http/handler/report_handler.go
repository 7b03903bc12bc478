package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/renovia/pos-ledger-api/internal/application/service"
	"github.com/renovia/pos-ledger-api/internal/presentation/http/dto/response"
)

// ReportHandler handles report and export HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ExportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, exportService *service.ExportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// Get handles building a financial report. Accepts either period=day|week|month
// or an explicit from/to date pair.
func (h *ReportHandler) Get(c *gin.Context) {
	includeRefunded := c.Query("include_refunded") == "true"
	from := parseDate(c.Query("from"))
	to := parseDate(c.Query("to"))

	if from != nil && to != nil {
		report, err := h.reportService.GetReportRange(c.Request.Context(), *from, to.AddDate(0, 0, 1), includeRefunded)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Report generated successfully", report)
		return
	}

	period := c.DefaultQuery("period", service.PeriodDay)
	report, err := h.reportService.GetReport(c.Request.Context(), period, includeRefunded)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Report generated successfully", report)
}

// Export streams the accounting export for a date range. Dates are inclusive,
// defaulting to the current month.
func (h *ReportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatCSV)

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if v := parseDate(c.Query("date_from")); v != nil {
		from = *v
	}
	if v := parseDate(c.Query("date_to")); v != nil {
		to = v.AddDate(0, 0, 1)
	}

	contentType := "text/csv"
	ext := "csv"
	if format == service.FormatFEC {
		contentType = "text/tab-separated-values"
		ext = "txt"
	}

	filename := fmt.Sprintf("sales-%s-%s.%s",
		from.Format("20060102"), to.AddDate(0, 0, -1).Format("20060102"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", contentType)

	if err := h.exportService.Export(c.Request.Context(), c.Writer, format, from, to); err != nil {
		response.Error(c, err)
		return
	}
}
