package repository

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// ActivityLogFilter criterios de listado de la bitácora.
type ActivityLogFilter struct {
	ActorID string
	Model   string
	Limit   int
	Offset  int
}

// ActivityLogRepository persiste la bitácora de auditoría.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	List(ctx context.Context, f ActivityLogFilter) ([]*entity.ActivityLog, int, error)
}
