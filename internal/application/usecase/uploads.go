package usecase

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
)

// MaxImageSize tamaño máximo de logos y fotos (2 MB).
const MaxImageSize = 2 << 20

// Directorios del almacenamiento.
const (
	LogoDir  = "logos"
	PhotoDir = "photos"
)

var (
	logoTypes  = []string{"image/jpeg", "image/png"}
	photoTypes = []string{"image/jpeg", "image/png", "image/webp"}
)

type imageRules struct {
	field   string
	allowed []string
	label   string
}

var (
	logoRules  = imageRules{field: "logo", allowed: logoTypes, label: "jpg, jpeg o png"}
	photoRules = imageRules{field: "photo", allowed: photoTypes, label: "jpg, jpeg, png o webp"}
)

// checkImage valida tamaño y tipo real del archivo (por contenido, no por extensión).
func checkImage(up *dto.Upload, rules imageRules) (*mimetype.MIME, error) {
	if len(up.Content) == 0 {
		return nil, domain.NewValidationError().Add(rules.field, "el archivo está vacío")
	}
	if len(up.Content) > MaxImageSize {
		return nil, domain.NewValidationError().Add(rules.field, "el archivo no puede superar 2 MB")
	}
	mt := mimetype.Detect(up.Content)
	for _, a := range rules.allowed {
		if mt.Is(a) {
			return mt, nil
		}
	}
	return nil, domain.NewValidationError().Add(rules.field, "debe ser una imagen "+rules.label)
}

// storeImage valida y guarda la imagen bajo dir con un nombre aleatorio. Devuelve la clave.
func storeImage(ctx context.Context, storage FileStorage, dir string, up *dto.Upload, rules imageRules) (string, error) {
	mt, err := checkImage(up, rules)
	if err != nil {
		return "", err
	}
	ok, err := storage.Exists(ctx, dir)
	if err != nil {
		return "", fmt.Errorf("check storage dir: %w", err)
	}
	if !ok {
		if err := storage.MakeDir(ctx, dir); err != nil {
			return "", fmt.Errorf("create storage dir: %w", err)
		}
	}
	key := dir + "/" + uuid.New().String() + mt.Extension()
	if err := storage.Put(ctx, key, up.Content, mt.String()); err != nil {
		return "", fmt.Errorf("store %s: %w", rules.field, err)
	}
	return key, nil
}

// removeFile borra key si no está vacía; los fallos solo se registran.
func removeFile(ctx context.Context, storage FileStorage, key string, log zerolog.Logger) {
	if key == "" {
		return
	}
	if err := storage.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("no se pudo borrar el archivo")
	}
}

// fileURL URL pública de key, vacía si no hay archivo.
func fileURL(storage FileStorage, key string) string {
	if key == "" || storage == nil {
		return ""
	}
	return storage.URL(key)
}
