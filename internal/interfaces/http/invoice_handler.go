package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	invoices  *billing.InvoiceUseCase
	lifecycle *billing.LifecycleUseCase
	pdf       *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, lifecycle *billing.LifecycleUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, lifecycle: lifecycle, pdf: pdf}
}

// Create godoc
// @Summary      Crear factura
// @Description  Usa customer_id o crea el cliente a partir de new_customer. El número se asigna en el servidor.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceRequest  true  "Factura con ítems"
// @Success      201   {object}  dto.InvoiceCreatedResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.invoices.Create(c.Context(), userActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar factura
// @Description  Si nada cambia responde "No changes were made" con la factura sin tocar.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        number  path  string              true  "Número de factura"
// @Param        body    body  dto.InvoiceRequest  true  "Factura con ítems"
// @Success      200  {object}  dto.InvoiceUpdatedResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.invoices.Update(c.Context(), userActor(c), c.Params("number"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	out, err := h.invoices.Get(c.Context(), userActor(c), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Número, estado o cliente"
// @Param        limit   query  int     false  "Default 20, max 100"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	return h.list(c, userActor(c))
}

// AdminList GET /api/admin/invoices: facturas de todos los usuarios.
func (h *InvoiceHandler) AdminList(c *fiber.Ctx) error {
	return h.list(c, adminActor(c))
}

func (h *InvoiceHandler) list(c *fiber.Ctx, actor billing.Actor) error {
	page, err := pageQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.invoices.List(c.Context(), actor, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Recent godoc
// @Summary      Últimas facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices/recent [get]
func (h *InvoiceHandler) Recent(c *fiber.Ctx) error {
	return h.recent(c, userActor(c))
}

// AdminRecent GET /api/admin/invoices/recent
func (h *InvoiceHandler) AdminRecent(c *fiber.Ctx) error {
	return h.recent(c, adminActor(c))
}

func (h *InvoiceHandler) recent(c *fiber.Ctx, actor billing.Actor) error {
	out, err := h.invoices.Recent(c.Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de factura"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoices.Delete(c.Context(), userActor(c), c.Params("number")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: billing.MsgInvoiceDeleted})
}

// AdminDelete DELETE /api/admin/invoices/:id
func (h *InvoiceHandler) AdminDelete(c *fiber.Ctx) error {
	if err := h.invoices.DeleteByID(c.Context(), adminActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: billing.MsgInvoiceDeleted})
}

// Download godoc
// @Summary      Descargar PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        number  path  string  true  "Número de factura"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number}/download [get]
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	content, filename, err := h.pdf.Download(c.Context(), userActor(c), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(content)
}

// Send godoc
// @Summary      Enviar factura por correo
// @Description  Adjunta el PDF y marca la factura como enviada. Si el correo falla no cambia nada.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de factura"
// @Success      200  {object}  dto.InvoiceActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number}/send [post]
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	return h.action(c, h.lifecycle.Send)
}

// MarkPaid godoc
// @Summary      Marcar como pagada
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de factura"
// @Success      200  {object}  dto.InvoiceActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number}/mark-paid [post]
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	return h.action(c, h.lifecycle.MarkPaid)
}

// Void godoc
// @Summary      Anular factura
// @Description  Una factura pagada no se puede anular.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de factura"
// @Success      200  {object}  dto.InvoiceActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number}/void [post]
func (h *InvoiceHandler) Void(c *fiber.Ctx) error {
	return h.action(c, h.lifecycle.Void)
}

// Duplicate godoc
// @Summary      Duplicar factura
// @Description  Copia cliente, notas, impuesto e ítems con número nuevo, fechas de hoy y estado pending.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de factura"
// @Success      201  {object}  dto.InvoiceActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{number}/duplicate [post]
func (h *InvoiceHandler) Duplicate(c *fiber.Ctx) error {
	out, err := h.lifecycle.Duplicate(c.Context(), userActor(c), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

type invoiceAction func(ctx context.Context, actor billing.Actor, number string) (*dto.InvoiceActionResponse, error)

func (h *InvoiceHandler) action(c *fiber.Ctx, run invoiceAction) error {
	out, err := run(c.Context(), userActor(c), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
