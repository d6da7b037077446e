package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
	logs repository.ActivityLogRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, logs repository.ActivityLogRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, logs: logs}
}

// Create crea un cliente del actor.
func (uc *CustomerUseCase) Create(ctx context.Context, actor Actor, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	verr := domain.NewValidationError()
	for field, v := range map[string]string{"name": in.Name, "email": in.Email, "address": in.Address, "phone": in.Phone} {
		if strings.TrimSpace(v) == "" {
			verr.Add(field, "requerido")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		UserID:    actor.UserID,
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	_ = uc.logs.Create(ctx, actor.Activity(entity.ActionCreated, entity.ModelCustomer, customer.ID,
		map[string]any{"name": customer.Name, "email": customer.Email}, now))
	out := ToCustomerResponse(customer)
	return &out, nil
}

// List lista los clientes del actor (todos si es admin).
func (uc *CustomerUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.CustomerFilter{
		UserID: actor.Scope(),
		Search: page.Search,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina un cliente y, en cascada, sus facturas.
func (uc *CustomerUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil || !actor.Owns(c.UserID) {
		return notFound("cliente", id)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = uc.logs.Create(ctx, actor.Activity(entity.ActionDeleted, entity.ModelCustomer, id,
		map[string]any{"name": c.Name}, time.Now().UTC()))
	return nil
}
