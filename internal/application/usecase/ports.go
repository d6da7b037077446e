package usecase

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// AccountTxRunner ejecuta fn dentro de una transacción con los repos de cuentas.
// Si fn devuelve error la transacción se revierte.
type AccountTxRunner interface {
	RunAccount(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		settingsRepo repository.CompanySettingRepository,
		logRepo repository.ActivityLogRepository,
	) error) error
}

// FileStorage almacenamiento de logos y fotos (disco local o S3).
// Las claves son rutas relativas con "/" como separador.
type FileStorage interface {
	Exists(ctx context.Context, key string) (bool, error)
	MakeDir(ctx context.Context, dir string) error
	Put(ctx context.Context, key string, content []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// SettingsReader lectura de la configuración de empresa (repo o caché).
type SettingsReader interface {
	GetByUserID(ctx context.Context, userID string) (*entity.CompanySetting, error)
}

// SettingsInvalidator descarta la copia en caché tras una escritura.
type SettingsInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}
