package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo persiste la bitácora en activity_logs (changes en JSONB).
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create inserta un registro de auditoría.
func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	changes, err := json.Marshal(l.Changes)
	if err != nil {
		return fmt.Errorf("marshal activity changes: %w", err)
	}
	const query = `
		INSERT INTO activity_logs (id, actor_id, action, model, model_id, changes, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		l.ID, nullIfEmpty(l.ActorID), l.Action, l.Model, l.ModelID, changes,
		l.IPAddress, l.UserAgent, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List lista la bitácora, más reciente primero.
func (r *ActivityLogRepo) List(ctx context.Context, f repository.ActivityLogFilter) ([]*entity.ActivityLog, int, error) {
	limit, offset := page(f.Limit, f.Offset)
	const query = `
		SELECT id, actor_id::TEXT, action, model, model_id, changes, ip_address, user_agent, created_at, COUNT(*) OVER()
		FROM activity_logs
		WHERE ($1 = '' OR actor_id::TEXT = $1)
		  AND ($2 = '' OR model = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.ActorID, f.Model, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.ActivityLog
		total int
	)
	for rows.Next() {
		var (
			l       entity.ActivityLog
			actorID *string
			raw     []byte
		)
		if err := rows.Scan(&l.ID, &actorID, &l.Action, &l.Model, &l.ModelID, &raw,
			&l.IPAddress, &l.UserAgent, &l.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan activity log: %w", err)
		}
		l.ActorID = derefStr(actorID)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &l.Changes); err != nil {
				return nil, 0, fmt.Errorf("unmarshal activity changes: %w", err)
			}
		}
		list = append(list, &l)
	}
	return list, total, rows.Err()
}
