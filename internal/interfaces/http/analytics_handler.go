package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/logicielhub-api/internal/application/analytics"
)

// AnalyticsHandler informe de costes y su exportación PDF.
type AnalyticsHandler struct {
	uc *appanalytics.AnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetReport godoc
// @Summary      Informe de costes
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.AnalyticsReportDTO
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) GetReport(c *fiber.Ctx) error {
	out := h.uc.GetReport(c.UserContext(), GetCompanyID(c))
	observeDegraded("analytics", out.Degraded)
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Informe de costes en PDF (A4)
// @Tags         analytics
// @Security     BearerAuth
// @Produce      application/pdf
// @Success      200
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/analytics/report.pdf [get]
func (h *AnalyticsHandler) ReportPDF(c *fiber.Ctx) error {
	doc, err := h.uc.RenderPDF(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="rapport-analytique.pdf"`)
	return c.Send(doc)
}
