package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
)

// CompanyHandler maneja la configuración de empresa del usuario.
type CompanyHandler struct {
	uc *usecase.CompanySettingsUseCase
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(uc *usecase.CompanySettingsUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener configuración de empresa
// @Description  Si el usuario aún no la guardó devuelve los valores por defecto.
// @Tags         company-settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CompanySettingsResponse
// @Router       /api/company-settings [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Guardar configuración de empresa
// @Description  multipart/form-data con logo opcional (jpg o png, máx. 2MB); también acepta JSON sin logo.
// @Tags         company-settings
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        company_name     formData  string  true   "Nombre"
// @Param        company_email    formData  string  false  "Email"
// @Param        company_phone    formData  string  false  "Teléfono"
// @Param        company_address  formData  string  false  "Dirección"
// @Param        invoice_prefix   formData  string  false  "Prefijo de numeración (default INV)"
// @Param        invoice_footer   formData  string  false  "Pie de factura"
// @Param        tin              formData  string  false  "Identificación tributaria"
// @Param        currency         formData  string  false  "Código ISO 4217"
// @Param        currency_symbol  formData  string  false  "Símbolo"
// @Param        logo             formData  file    false  "Logo"
// @Success      200  {object}  dto.CompanySettingsResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/company-settings [post]
func (h *CompanyHandler) Save(c *fiber.Ctx) error {
	var in dto.CompanySettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	logo, err := formUpload(c, "logo")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Save(c.Context(), userActor(c), in, logo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// WhiteLabel godoc
// @Summary      Marca blanca (colores y CSS)
// @Description  Sin user_id aplica a la configuración del propio admin.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WhiteLabelRequest  true  "Colores y CSS"
// @Success      200  {object}  dto.CompanySettingsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/admin/company-settings/white-label [put]
func (h *CompanyHandler) WhiteLabel(c *fiber.Ctx) error {
	var in dto.WhiteLabelRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.WhiteLabel(c.Context(), adminActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
