package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/invoicing"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// CustomerResolver obtiene el cliente de una factura a partir de la referencia de la petición.
type CustomerResolver struct {
	now func() time.Time
}

// NewCustomerResolver construye el resolver.
func NewCustomerResolver(now func() time.Time) *CustomerResolver {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &CustomerResolver{now: now}
}

// Resolve devuelve el cliente y si fue creado. Un cliente existente debe pertenecer a ownerID
// (si no, domain.ErrNotFound); uno nuevo se crea con repo, dentro de la transacción del caller.
func (r *CustomerResolver) Resolve(
	ctx context.Context,
	repo repository.CustomerRepository,
	ownerID string,
	ref invoicing.CustomerRef,
) (*entity.Customer, bool, error) {
	switch ref := ref.(type) {
	case invoicing.ExistingCustomer:
		c, err := repo.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, false, fmt.Errorf("resolver cliente: %w", err)
		}
		if c == nil || c.UserID != ownerID {
			return nil, false, fmt.Errorf("cliente %s: %w", ref.ID, domain.ErrNotFound)
		}
		return c, false, nil
	case invoicing.NewCustomer:
		now := r.now()
		c := &entity.Customer{
			ID:        uuid.New().String(),
			UserID:    ownerID,
			Name:      ref.Name,
			Email:     ref.Email,
			Address:   ref.Address,
			Phone:     ref.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, c); err != nil {
			return nil, false, fmt.Errorf("crear cliente: %w", err)
		}
		return c, true, nil
	default:
		return nil, false, fmt.Errorf("referencia de cliente %T: %w", ref, domain.ErrInvalidInput)
	}
}
