package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at,
	p.full_name, p.phone, p.address, p.city, p.post_code, p.country, p.photo, p.updated_at`

const userFrom = `
	FROM users u
	LEFT JOIN user_profiles p ON p.user_id = u.id`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario (sin perfil; ver UpsertProfile).
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return userWriteError("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario con su perfil.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE u.id::TEXT = $1`, id)
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE LOWER(u.email) = LOWER($1)`, email)
}

func (r *UserRepo) getOne(ctx context.Context, where, arg string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+userFrom+` `+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List lista usuarios filtrando por rol y búsqueda.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	limit, offset := page(f.Limit, f.Offset)
	query := `SELECT ` + userColumns + `, COUNT(*) OVER() ` + userFrom + `
		WHERE ($1 = '' OR u.role = $1)
		  AND ($2 = '' OR u.name ILIKE $3 OR u.email ILIKE $3 OR p.full_name ILIKE $3)
		ORDER BY u.created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.Role, f.Search, likePattern(f.Search), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.User
		total int
	)
	for rows.Next() {
		u, err := scanUser(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

// Update actualiza nombre, email y rol.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	const query = `
		UPDATE users SET name = $2, email = $3, role = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, user.ID, user.Name, user.Email, user.Role, user.UpdatedAt)
	if err != nil {
		return userWriteError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, passwordHash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpsertProfile crea o reemplaza el perfil del usuario.
func (r *UserRepo) UpsertProfile(ctx context.Context, p *entity.Profile) error {
	const query = `
		INSERT INTO user_profiles (user_id, full_name, phone, address, city, post_code, country, photo, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
		    full_name  = EXCLUDED.full_name,
		    phone      = EXCLUDED.phone,
		    address    = EXCLUDED.address,
		    city       = EXCLUDED.city,
		    post_code  = EXCLUDED.post_code,
		    country    = EXCLUDED.country,
		    photo      = EXCLUDED.photo,
		    updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		p.UserID, p.FullName, p.Phone, p.Address, p.City, p.PostCode, p.Country, p.Photo, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Delete elimina el usuario; perfil, clientes, facturas y configuración caen en cascada.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id::TEXT = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// userWriteError traduce violaciones de unicidad de users a errores de dominio.
func userWriteError(op string, err error) error {
	if !isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if constraintName(err) == "users_email_key" {
		return domain.ErrEmailAlreadyExists
	}
	return fmt.Errorf("%s: nombre de usuario en uso: %w", op, domain.ErrDuplicate)
}

func scanUser(row interface{ Scan(...any) error }, extra ...any) (*entity.User, error) {
	var (
		u                                                          entity.User
		fullName, phone, address, city, postCode, country, photo *string
		profileUpdated                                             *time.Time
	)
	dest := []any{
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		&fullName, &phone, &address, &city, &postCode, &country, &photo, &profileUpdated,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if profileUpdated != nil {
		u.Profile = &entity.Profile{
			UserID:    u.ID,
			FullName:  derefStr(fullName),
			Phone:     derefStr(phone),
			Address:   derefStr(address),
			City:      derefStr(city),
			PostCode:  derefStr(postCode),
			Country:   derefStr(country),
			Photo:     derefStr(photo),
			UpdatedAt: *profileUpdated,
		}
	}
	return &u, nil
}
