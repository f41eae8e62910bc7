package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/logicielhub-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen de la empresa
// @Description  Totales de software y coste anualizado, contratos que vencen en 30 días,
// @Description  solicitudes pendientes, coste por usuario y elementos recientes.
// @Description  Si la lectura falla responde 200 con degraded=true.
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary := h.uc.GetSummary(c.UserContext(), GetCompanyID(c))
	observeDegraded("dashboard", summary.Degraded)
	return c.JSON(summary)
}
