package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/invoicing-api/internal/application/analytics"
)

// DashboardHandler maneja el resumen del panel de administración.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del panel de administración
// @Description  Top 5 clientes por gasto, 5 facturas pendientes que vencen en los próximos 7 días
// @Description  y 5 facturas pendientes ya vencidas. Las fechas se calculan en el servidor.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/dashboard-summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
