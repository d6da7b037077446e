package repository

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// UserFilter criterios de listado de usuarios.
type UserFilter struct {
	Role   string
	Search string // nombre, email o nombre completo
	Limit  int
	Offset int
}

// UserRepository define el puerto de persistencia para User y su Profile.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// GetByID y GetByEmail cargan también el perfil; devuelven (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, f UserFilter) ([]*entity.User, int, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpsertProfile(ctx context.Context, profile *entity.Profile) error
	Delete(ctx context.Context, id string) error
}
