package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
)

// UserHandler perfil propio y administración de usuarios.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Profile godoc
// @Summary      Perfil del usuario autenticado
// @Tags         user
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Router       /api/user/profile [get]
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	out, err := h.uc.Profile(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "Nombre y datos de perfil"
// @Success      200  {object}  dto.UserResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/user/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateProfile(c.Context(), userActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateEmail godoc
// @Summary      Cambiar email
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateEmailRequest  true  "Nuevo email"
// @Success      200  {object}  dto.UserResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/user/email [put]
func (h *UserHandler) UpdateEmail(c *fiber.Ctx) error {
	var in dto.UpdateEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateEmail(c.Context(), userActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdatePassword godoc
// @Summary      Cambiar contraseña
// @Description  Mínimo 8 caracteres con mayúscula, minúscula, número y símbolo.
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdatePasswordRequest  true  "Contraseña actual y nueva"
// @Success      200  {object}  dto.MessageResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/user/password [put]
func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	var in dto.UpdatePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdatePassword(c.Context(), userActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdatePhoto godoc
// @Summary      Cambiar foto de perfil
// @Tags         user
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        photo  formData  file  true  "jpg, png o webp; máx. 2MB"
// @Success      200  {object}  dto.UserResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/user/photo [post]
func (h *UserHandler) UpdatePhoto(c *fiber.Ctx) error {
	photo, err := formUpload(c, "photo")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdatePhoto(c.Context(), userActor(c), photo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar usuarios con rol user
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre o email"
// @Param        limit   query  int     false  "Default 20, max 100"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/admin/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de usuario
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario
// @Tags         admin
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        name       formData  string  true   "Nombre de usuario"
// @Param        email      formData  string  true   "Email"
// @Param        password   formData  string  true   "Contraseña"
// @Param        role       formData  string  false  "admin | user (default user)"
// @Param        full_name  formData  string  true   "Nombre completo"
// @Param        photo      formData  file    false  "Foto de perfil"
// @Success      201  {object}  dto.UserResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/admin/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	photo, err := formUpload(c, "photo")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), adminActor(c), in, photo)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar usuario
// @Description  password vacío no cambia la contraseña.
// @Tags         admin
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true   "ID del usuario"
// @Param        photo  formData  file    false  "Foto de perfil"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	photo, err := formUpload(c, "photo")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.Context(), adminActor(c), c.Params("id"), in, photo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Description  Un admin no puede eliminarse a sí mismo.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), adminActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted successfully"})
}
