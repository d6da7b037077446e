package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/invoicing-api/internal/application/analytics"
	"github.com/jhoicas/invoicing-api/internal/application/billing"
)

// AnalyticsHandler maneja las estadísticas de facturación.
type AnalyticsHandler struct {
	uc *appanalytics.StatsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.StatsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Stats godoc
// @Summary      Estadísticas de facturación del usuario
// @Description  Ingresos y conteos por estado, clientes totales y del mes, cliente con más facturas.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InvoiceStatsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/invoices/stats [get]
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	return h.stats(c, userActor(c))
}

// AdminStats godoc
// @Summary      Estadísticas de facturación de todo el sistema
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InvoiceStatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/stats [get]
func (h *AnalyticsHandler) AdminStats(c *fiber.Ctx) error {
	return h.stats(c, adminActor(c))
}

func (h *AnalyticsHandler) stats(c *fiber.Ctx, actor billing.Actor) error {
	out, err := h.uc.Get(c.Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
