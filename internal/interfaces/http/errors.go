package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
)

// MsgUnexpected mensaje genérico para errores no clasificados; el detalle solo va al log.
const MsgUnexpected = "ocurrió un error inesperado"

// respondError traduce un error de dominio a su respuesta HTTP.
func respondError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", GetUserID(c)).
			Msg("error inesperado")
	}
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: verr.Fields}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: MsgUnexpected}
	}
}

// badBody respuesta para cuerpos o parámetros que no se pueden decodificar.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler manejador global de fiber: errores de fiber conservan su código, el resto pasa por respondError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return respondError(c, err)
}
