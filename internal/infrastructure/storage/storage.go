// Package storage implementa usecase.FileStorage sobre disco local o un bucket S3 compatible.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/pkg/config"
)

// ErrInvalidKey clave vacía, absoluta o que sale de la raíz.
var ErrInvalidKey = errors.New("storage: clave inválida")

// New construye el almacenamiento según STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (usecase.FileStorage, error) {
	switch cfg.Driver {
	case "", "local":
		log.Info().Str("root", cfg.LocalRoot).Msg("almacenamiento local")
		return NewLocalStorage(cfg.LocalRoot, cfg.PublicBaseURL), nil
	case "s3":
		s, err := NewS3Storage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.Bucket).Str("endpoint", cfg.Endpoint).Msg("almacenamiento S3")
		return s, nil
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}
}

// cleanKey normaliza la clave a una ruta relativa con "/".
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return clean, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
