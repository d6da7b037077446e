package repository

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// CustomerFilter criterios de listado. UserID vacío = todos (admin).
type CustomerFilter struct {
	UserID string
	Search string
	Limit  int
	Offset int
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, f CustomerFilter) ([]*entity.Customer, int, error)
	Delete(ctx context.Context, id string) error
}
