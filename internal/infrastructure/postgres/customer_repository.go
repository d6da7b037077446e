package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO customers (id, user_id, name, email, address, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.UserID, customer.Name, customer.Email, customer.Address, customer.Phone,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	const query = `
		SELECT id, user_id, name, email, address, phone, created_at, updated_at
		FROM customers WHERE id::TEXT = $1`
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// List lista clientes por nombre con búsqueda y paginación.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	limit, offset := page(f.Limit, f.Offset)
	const query = `
		SELECT id, user_id, name, email, address, phone, created_at, updated_at, COUNT(*) OVER()
		FROM customers
		WHERE ($1 = '' OR user_id::TEXT = $1)
		  AND ($2 = '' OR name ILIKE $3 OR email ILIKE $3 OR phone ILIKE $3)
		ORDER BY name
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.UserID, f.Search, likePattern(f.Search), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.Customer
		total int
	)
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, total, rows.Err()
}

// Delete elimina un cliente por ID (sus facturas se eliminan en cascada).
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id::TEXT = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
