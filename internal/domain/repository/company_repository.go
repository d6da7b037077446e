package repository

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// CompanySettingRepository define el puerto de persistencia para la configuración de empresa.
type CompanySettingRepository interface {
	// GetByUserID devuelve (nil, nil) si el usuario aún no tiene configuración.
	GetByUserID(ctx context.Context, userID string) (*entity.CompanySetting, error)
	// Upsert crea o actualiza la fila del usuario.
	Upsert(ctx context.Context, setting *entity.CompanySetting) error
}
