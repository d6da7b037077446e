package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
)

// ActivityLogHandler consulta del registro de actividad.
type ActivityLogHandler struct {
	uc *usecase.ActivityLogUseCase
}

// NewActivityLogHandler construye el handler.
func NewActivityLogHandler(uc *usecase.ActivityLogUseCase) *ActivityLogHandler {
	return &ActivityLogHandler{uc: uc}
}

// List godoc
// @Summary      Registro de actividad
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        actor_id  query  string  false  "Filtra por usuario"
// @Param        model     query  string  false  "invoice | customer | user | company_setting"
// @Param        limit     query  int     false  "Default 20, max 100"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ActivityLogListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/admin/activity-logs [get]
func (h *ActivityLogHandler) List(c *fiber.Ctx) error {
	var q dto.ActivityLogQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	if err := validateStruct(q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
