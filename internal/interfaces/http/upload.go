package http

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/internal/domain"
)

// isMultipart indica si la petición viene como multipart/form-data.
func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// formUpload lee el archivo del campo indicado. Devuelve nil si la petición no es multipart
// o no trae ese campo. Lee como máximo MaxImageSize+1 bytes para que el caso de uso
// pueda rechazar archivos demasiado grandes.
func formUpload(c *fiber.Ctx, field string) (*dto.Upload, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, domain.NewValidationError().Add(field, "formulario multipart inválido")
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", field, err)
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, usecase.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", field, err)
	}
	return &dto.Upload{Filename: fh.Filename, Content: content}, nil
}
