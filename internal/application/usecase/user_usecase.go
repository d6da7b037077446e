package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// MsgPasswordUpdated respuesta del cambio de contraseña.
const MsgPasswordUpdated = "Password updated successfully"

const maskedPassword = "********"

// UserUseCase administración de usuarios y perfil propio.
type UserUseCase struct {
	tx      AccountTxRunner
	users   repository.UserRepository
	storage FileStorage
	log     zerolog.Logger
	now     func() time.Time
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(tx AccountTxRunner, users repository.UserRepository, storage FileStorage, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{
		tx:      tx,
		users:   users,
		storage: storage,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UserUseCase) WithClock(now func() time.Time) *UserUseCase {
	uc.now = now
	return uc
}

// List lista los usuarios con rol user (buscando por nombre, email o nombre completo).
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.users.List(ctx, repository.UserFilter{
		Role:   entity.RoleUser,
		Search: page.Search,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *ToUserResponse(u, uc.storage))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Get obtiene un usuario con su perfil.
func (uc *UserUseCase) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(u, uc.storage), nil
}

// Profile perfil del usuario autenticado.
func (uc *UserUseCase) Profile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	return uc.Get(ctx, userID)
}

// Create da de alta un usuario con su perfil y foto opcional en una sola transacción.
// La foto se borra del almacenamiento si la transacción falla.
func (uc *UserUseCase) Create(ctx context.Context, actor billing.Actor, in dto.CreateUserRequest, photo *dto.Upload) (*dto.UserResponse, error) {
	if err := CheckPassword("password", in.Password); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	photoKey := ""
	if photo != nil {
		if photoKey, err = storeImage(ctx, uc.storage, PhotoDir, photo, photoRules); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         roleOrDefault(in.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := profileFrom(user.ID, in.ProfileFields)
	profile.Photo = photoKey
	profile.UpdatedAt = now
	user.Profile = profile

	err = uc.tx.RunAccount(ctx, func(users repository.UserRepository, _ repository.CompanySettingRepository, logs repository.ActivityLogRepository) error {
		existing, err := users.GetByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		if err := users.UpsertProfile(ctx, profile); err != nil {
			return err
		}
		return logs.Create(ctx, actor.Activity(entity.ActionCreated, entity.ModelUser, user.ID, map[string]any{
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"full_name": profile.FullName,
		}, now))
	})
	if err != nil {
		removeFile(ctx, uc.storage, photoKey, uc.log)
		return nil, err
	}
	return ToUserResponse(user, uc.storage), nil
}

// Update edición de un usuario por un admin. Password vacío no se cambia.
func (uc *UserUseCase) Update(ctx context.Context, actor billing.Actor, id string, in dto.UpdateUserRequest, photo *dto.Upload) (*dto.UserResponse, error) {
	hash := ""
	if in.Password != "" {
		if err := CheckPassword("password", in.Password); err != nil {
			return nil, err
		}
		h, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	return uc.mutate(ctx, actor, id, photo, func(u *entity.User, p *entity.Profile) error {
		u.Name = strings.TrimSpace(in.Name)
		u.Email = normalizeEmail(in.Email)
		if in.Role != "" {
			u.Role = in.Role
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		applyProfile(p, in.ProfileFields)
		return nil
	})
}

// UpdateProfile edición del perfil propio.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, actor billing.Actor, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return uc.mutate(ctx, actor, actor.UserID, nil, func(u *entity.User, p *entity.Profile) error {
		u.Name = strings.TrimSpace(in.Name)
		applyProfile(p, in.ProfileFields)
		return nil
	})
}

// UpdateEmail cambia el email propio.
func (uc *UserUseCase) UpdateEmail(ctx context.Context, actor billing.Actor, in dto.UpdateEmailRequest) (*dto.UserResponse, error) {
	return uc.mutate(ctx, actor, actor.UserID, nil, func(u *entity.User, _ *entity.Profile) error {
		u.Email = normalizeEmail(in.Email)
		return nil
	})
}

// UpdatePhoto reemplaza la foto de perfil propia; la anterior se borra tras el commit.
func (uc *UserUseCase) UpdatePhoto(ctx context.Context, actor billing.Actor, photo *dto.Upload) (*dto.UserResponse, error) {
	if photo == nil {
		return nil, domain.NewValidationError().Add("photo", "requerido")
	}
	return uc.mutate(ctx, actor, actor.UserID, photo, func(*entity.User, *entity.Profile) error { return nil })
}

// UpdatePassword cambia la contraseña propia tras comprobar la actual.
func (uc *UserUseCase) UpdatePassword(ctx context.Context, actor billing.Actor, in dto.UpdatePasswordRequest) (*dto.MessageResponse, error) {
	verr := domain.NewValidationError()
	if in.Password != in.PasswordConfirmation {
		verr.Add("password_confirmation", "no coincide con la contraseña")
	}
	verr.Merge(CheckPassword("password", in.Password))
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	_, err = uc.mutate(ctx, actor, actor.UserID, nil, func(u *entity.User, _ *entity.Profile) error {
		if !PasswordMatches(u.PasswordHash, in.CurrentPassword) {
			return domain.NewValidationError().Add("current_password", "la contraseña actual no es correcta")
		}
		u.PasswordHash = hash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: MsgPasswordUpdated}, nil
}

// Delete elimina un usuario (no el propio). Su foto se borra tras el commit.
func (uc *UserUseCase) Delete(ctx context.Context, actor billing.Actor, id string) error {
	if id == actor.UserID {
		return domain.ErrForbidden
	}
	var photo string
	err := uc.tx.RunAccount(ctx, func(users repository.UserRepository, _ repository.CompanySettingRepository, logs repository.ActivityLogRepository) error {
		u, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		if u.Profile != nil {
			photo = u.Profile.Photo
		}
		if err := users.Delete(ctx, id); err != nil {
			return err
		}
		return logs.Create(ctx, actor.Activity(entity.ActionDeleted, entity.ModelUser, id,
			map[string]any{"name": u.Name, "email": u.Email}, uc.now()))
	})
	if err != nil {
		return err
	}
	removeFile(ctx, uc.storage, photo, uc.log)
	return nil
}

// mutate carga el usuario, aplica change y persiste solo lo que cambió, con su bitácora.
// Si llega foto se guarda antes de la transacción y reemplaza la del perfil.
func (uc *UserUseCase) mutate(ctx context.Context, actor billing.Actor, id string, photo *dto.Upload, change func(u *entity.User, p *entity.Profile) error) (*dto.UserResponse, error) {
	newPhoto := ""
	if photo != nil {
		key, err := storeImage(ctx, uc.storage, PhotoDir, photo, photoRules)
		if err != nil {
			return nil, err
		}
		newPhoto = key
	}

	var (
		result   *entity.User
		oldPhoto string
	)
	err := uc.tx.RunAccount(ctx, func(users repository.UserRepository, _ repository.CompanySettingRepository, logs repository.ActivityLogRepository) error {
		current, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrUserNotFound
		}
		before := *current
		beforeProfile := entity.Profile{UserID: id}
		if current.Profile != nil {
			beforeProfile = *current.Profile
		}
		u := before
		p := beforeProfile
		if err := change(&u, &p); err != nil {
			return err
		}
		if newPhoto != "" {
			oldPhoto = p.Photo
			p.Photo = newPhoto
		}

		if u.Email != before.Email {
			other, err := users.GetByEmail(ctx, u.Email)
			if err != nil {
				return err
			}
			if other != nil && other.ID != u.ID {
				return domain.ErrEmailAlreadyExists
			}
		}

		now := uc.now()
		uChanges := userChanges(&before, &u)
		pChanges := profileChanges(&beforeProfile, &p)
		passwordChanged := u.PasswordHash != before.PasswordHash

		if len(uChanges) > 0 {
			u.UpdatedAt = now
			if err := users.Update(ctx, &u); err != nil {
				return err
			}
		}
		if passwordChanged {
			if err := users.UpdatePassword(ctx, u.ID, u.PasswordHash); err != nil {
				return err
			}
			uChanges["password"] = maskedPassword
		}
		if len(pChanges) > 0 {
			p.UpdatedAt = now
			if err := users.UpsertProfile(ctx, &p); err != nil {
				return err
			}
		}
		u.Profile = &p
		result = &u

		if len(uChanges) == 0 && len(pChanges) == 0 {
			return nil
		}
		for k, v := range pChanges {
			uChanges[k] = v
		}
		return logs.Create(ctx, actor.Activity(entity.ActionUpdated, entity.ModelUser, u.ID, uChanges, now))
	})
	if err != nil {
		removeFile(ctx, uc.storage, newPhoto, uc.log)
		return nil, err
	}
	if oldPhoto != newPhoto {
		removeFile(ctx, uc.storage, oldPhoto, uc.log)
	}
	return ToUserResponse(result, uc.storage), nil
}

// ToUserResponse mapea el usuario (sin hash) con la URL pública de su foto.
func ToUserResponse(u *entity.User, storage FileStorage) *dto.UserResponse {
	if u == nil {
		return nil
	}
	out := &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if p := u.Profile; p != nil {
		out.Profile = &dto.ProfileResponse{
			FullName: p.FullName,
			Phone:    p.Phone,
			Address:  p.Address,
			City:     p.City,
			PostCode: p.PostCode,
			Country:  p.Country,
			Photo:    p.Photo,
			PhotoURL: fileURL(storage, p.Photo),
		}
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func roleOrDefault(role string) string {
	if role == entity.RoleAdmin {
		return entity.RoleAdmin
	}
	return entity.RoleUser
}

func profileFrom(userID string, in dto.ProfileFields) *entity.Profile {
	p := &entity.Profile{UserID: userID}
	applyProfile(p, in)
	return p
}

func applyProfile(p *entity.Profile, in dto.ProfileFields) {
	p.FullName = strings.TrimSpace(in.FullName)
	p.Phone = strings.TrimSpace(in.Phone)
	p.Address = strings.TrimSpace(in.Address)
	p.City = strings.TrimSpace(in.City)
	p.PostCode = strings.TrimSpace(in.PostCode)
	p.Country = strings.TrimSpace(in.Country)
}

func userChanges(before, after *entity.User) map[string]any {
	changes := map[string]any{}
	diff(changes, "name", before.Name, after.Name)
	diff(changes, "email", before.Email, after.Email)
	diff(changes, "role", before.Role, after.Role)
	return changes
}

func profileChanges(before, after *entity.Profile) map[string]any {
	changes := map[string]any{}
	diff(changes, "full_name", before.FullName, after.FullName)
	diff(changes, "phone", before.Phone, after.Phone)
	diff(changes, "address", before.Address, after.Address)
	diff(changes, "city", before.City, after.City)
	diff(changes, "post_code", before.PostCode, after.PostCode)
	diff(changes, "country", before.Country, after.Country)
	diff(changes, "photo", before.Photo, after.Photo)
	return changes
}
