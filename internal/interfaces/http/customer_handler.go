package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
)

// CustomerHandler maneja las peticiones HTTP de clientes.
type CustomerHandler struct {
	uc *billing.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *billing.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "name, email, address, phone"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	customer, err := h.uc.Create(c.Context(), userActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Filtro por nombre o email"
// @Param        limit   query  int     false  "Default 20, max 100"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	return h.list(c, userActor(c))
}

// AdminList GET /api/admin/customers: clientes de todos los usuarios.
func (h *CustomerHandler) AdminList(c *fiber.Ctx) error {
	return h.list(c, adminActor(c))
}

func (h *CustomerHandler) list(c *fiber.Ctx, actor billing.Actor) error {
	page, err := pageQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.List(c.Context(), actor, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// AdminDelete godoc
// @Summary      Eliminar cliente (y sus facturas)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/customers/{id} [delete]
func (h *CustomerHandler) AdminDelete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), adminActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Customer deleted successfully"})
}

// pageQuery lee y valida limit/offset/search.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, domain.NewValidationError().Add("limit", "parámetros de paginación inválidos")
	}
	if err := validateStruct(page); err != nil {
		return page, err
	}
	page.DefaultPage()
	return page, nil
}
