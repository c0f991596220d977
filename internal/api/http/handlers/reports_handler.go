package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskhive/support-desk/internal/service"
)

// ReportsHandler serves closed-ticket report downloads.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// Generate handles GET /api/v1/ticket/generate?requestFormat=csv|pdf.
// The document is streamed as an attachment, not wrapped in the JSON
// envelope.
func (h *ReportsHandler) Generate(c *fiber.Ctx) error {
	doc, err := h.reports.GenerateRequestReports(c.UserContext(), c.Query("requestFormat"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
	return c.Status(http.StatusOK).Send(doc.Body)
}
