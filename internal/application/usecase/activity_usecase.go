package usecase

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// ActivityLogUseCase consulta de la bitácora (solo admin).
type ActivityLogUseCase struct {
	repo repository.ActivityLogRepository
}

// NewActivityLogUseCase construye el caso de uso.
func NewActivityLogUseCase(repo repository.ActivityLogRepository) *ActivityLogUseCase {
	return &ActivityLogUseCase{repo: repo}
}

// List lista la bitácora, la más reciente primero.
func (uc *ActivityLogUseCase) List(ctx context.Context, q dto.ActivityLogQuery) (*dto.ActivityLogListResponse, error) {
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ActivityLogFilter{
		ActorID: q.ActorID,
		Model:   q.Model,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ActivityLogResponse, 0, len(list))
	for _, l := range list {
		items = append(items, toActivityLogResponse(l))
	}
	return &dto.ActivityLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toActivityLogResponse(l *entity.ActivityLog) dto.ActivityLogResponse {
	changes := l.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	return dto.ActivityLogResponse{
		ID:        l.ID,
		ActorID:   l.ActorID,
		Action:    l.Action,
		Model:     l.Model,
		ModelID:   l.ModelID,
		Changes:   changes,
		IPAddress: l.IPAddress,
		UserAgent: l.UserAgent,
		CreatedAt: l.CreatedAt,
	}
}
