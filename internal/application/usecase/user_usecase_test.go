package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

const strongPassword = "Secreto#2024"

type userFixture struct {
	store   *accountStore
	tx      *fakeTx
	storage *memStorage
	uc      *usecase.UserUseCase
	admin   billing.Actor
	user    billing.Actor
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		store:   newAccountStore(),
		storage: newMemStorage(),
		admin:   billing.Actor{UserID: adminID, Admin: true},
		user:    billing.Actor{UserID: userID},
	}
	f.tx = &fakeTx{s: f.store}
	f.uc = usecase.NewUserUseCase(f.tx, &userRepo{f.store}, f.storage, zerolog.Nop()).
		WithClock(func() time.Time { return fixedNow })

	hash, err := usecase.HashPassword(strongPassword)
	require.NoError(t, err)
	f.store.users[adminID] = entity.User{ID: adminID, Name: "admin", Email: "admin@test.io", PasswordHash: hash, Role: entity.RoleAdmin}
	f.store.users[userID] = entity.User{ID: userID, Name: "ana", Email: "ana@test.io", PasswordHash: hash, Role: entity.RoleUser}
	f.store.profiles[userID] = entity.Profile{UserID: userID, FullName: "Ana Pérez", City: "Accra", Photo: "photos/old.png"}
	f.storage.files["photos/old.png"] = pngBytes
	return f
}

func createRequest() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Name:     "kofi",
		Email:    " Kofi@Test.io ",
		Password: strongPassword,
		ProfileFields: dto.ProfileFields{
			FullName: "Kofi Mensah",
			Country:  "Ghana",
		},
	}
}

// ── política de contraseña ──────────────────────────────────────────────────

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"válida", "Secreto#2024", true},
		{"corta", "Se#1a", false},
		{"sin mayúscula", "secreto#2024", false},
		{"sin minúscula", "SECRETO#2024", false},
		{"sin número", "Secreto#abcd", false},
		{"sin símbolo", "Secreto2024", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := usecase.CheckPassword("password", tt.password)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "password")
		})
	}
}

// ── Create ──────────────────────────────────────────────────────────────────

func TestUser_Create_ConPerfilYFoto(t *testing.T) {
	f := newUserFixture(t)

	out, err := f.uc.Create(context.Background(), f.admin, createRequest(), &dto.Upload{Content: jpegBytes})

	require.NoError(t, err)
	assert.Equal(t, "kofi@test.io", out.Email)
	assert.Equal(t, entity.RoleUser, out.Role)
	require.NotNil(t, out.Profile)
	assert.Equal(t, "Kofi Mensah", out.Profile.FullName)
	assert.True(t, strings.HasPrefix(out.Profile.Photo, usecase.PhotoDir+"/"))
	assert.Contains(t, f.storage.files, out.Profile.Photo)

	stored := f.store.users[out.ID]
	assert.NotEqual(t, strongPassword, stored.PasswordHash)
	assert.True(t, usecase.PasswordMatches(stored.PasswordHash, strongPassword))
	assert.Equal(t, "Ghana", f.store.profiles[out.ID].Country)

	last := f.store.logs[len(f.store.logs)-1]
	assert.Equal(t, entity.ActionCreated, last.Action)
	assert.Equal(t, entity.ModelUser, last.Model)
	assert.Equal(t, adminID, last.ActorID)
}

func TestUser_Create_EmailDuplicadoBorraLaFoto(t *testing.T) {
	f := newUserFixture(t)
	req := createRequest()
	req.Email = "ANA@test.io"

	_, err := f.uc.Create(context.Background(), f.admin, req, &dto.Upload{Content: pngBytes})

	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Equal(t, 1, f.tx.rollbacks)
	assert.Len(t, f.storage.files, 1, "solo queda la foto previa de ana")
	assert.Len(t, f.store.users, 2)
}

func TestUser_Create_ContraseñaDebil(t *testing.T) {
	f := newUserFixture(t)
	req := createRequest()
	req.Password = "password"

	_, err := f.uc.Create(context.Background(), f.admin, req, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.tx.commits+f.tx.rollbacks)
}

// ── List / Get ──────────────────────────────────────────────────────────────

func TestUser_List_SoloRolUser(t *testing.T) {
	f := newUserFixture(t)

	out, err := f.uc.List(context.Background(), dto.PageRequest{})

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, userID, out.Items[0].ID)
	assert.Equal(t, "https://cdn.test/photos/old.png", out.Items[0].Profile.PhotoURL)
	assert.Equal(t, 20, out.Page.Limit)
}

func TestUser_Get_Inexistente(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.uc.Get(context.Background(), "no-existe")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ── Update ──────────────────────────────────────────────────────────────────

func TestUser_Update_RegistraSoloLosCamposCambiados(t *testing.T) {
	f := newUserFixture(t)

	out, err := f.uc.Update(context.Background(), f.admin, userID, dto.UpdateUserRequest{
		Name:          "ana",
		Email:         "ana@test.io",
		Role:          entity.RoleAdmin,
		ProfileFields: dto.ProfileFields{FullName: "Ana Pérez", City: "Kumasi"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)
	assert.Equal(t, "Kumasi", out.Profile.City)
	assert.Equal(t, "photos/old.png", out.Profile.Photo)
	require.Len(t, f.store.logs, 1)
	assert.Equal(t, map[string]any{"role": entity.RoleAdmin, "city": "Kumasi"}, f.store.logs[0].Changes)
}

func TestUser_Update_SinCambiosNoRegistraBitacora(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.uc.Update(context.Background(), f.admin, userID, dto.UpdateUserRequest{
		Name:          "ana",
		Email:         "ana@test.io",
		ProfileFields: dto.ProfileFields{FullName: "Ana Pérez", City: "Accra"},
	}, nil)

	require.NoError(t, err)
	assert.Empty(t, f.store.logs)
}

func TestUser_Update_EmailDeOtroUsuario(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.uc.Update(context.Background(), f.admin, userID, dto.UpdateUserRequest{
		Name:          "ana",
		Email:         "admin@test.io",
		ProfileFields: dto.ProfileFields{FullName: "Ana Pérez"},
	}, nil)

	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Equal(t, "ana@test.io", f.store.users[userID].Email)
}

// ── perfil propio ───────────────────────────────────────────────────────────

func TestUser_UpdatePassword_ActualIncorrecta(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.uc.UpdatePassword(context.Background(), f.user, dto.UpdatePasswordRequest{
		CurrentPassword:      "Otra#2024x",
		Password:             "Nueva#2025x",
		PasswordConfirmation: "Nueva#2025x",
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "current_password")
	assert.True(t, usecase.PasswordMatches(f.store.users[userID].PasswordHash, strongPassword))
}

func TestUser_UpdatePassword_Correcta(t *testing.T) {
	f := newUserFixture(t)

	out, err := f.uc.UpdatePassword(context.Background(), f.user, dto.UpdatePasswordRequest{
		CurrentPassword:      strongPassword,
		Password:             "Nueva#2025x",
		PasswordConfirmation: "Nueva#2025x",
	})

	require.NoError(t, err)
	assert.Equal(t, usecase.MsgPasswordUpdated, out.Message)
	assert.True(t, usecase.PasswordMatches(f.store.users[userID].PasswordHash, "Nueva#2025x"))
	require.Len(t, f.store.logs, 1)
	assert.Equal(t, "********", f.store.logs[0].Changes["password"])
}

func TestUser_UpdatePhoto_BorraLaAnterior(t *testing.T) {
	f := newUserFixture(t)

	out, err := f.uc.UpdatePhoto(context.Background(), f.user, &dto.Upload{Content: pngBytes})

	require.NoError(t, err)
	assert.NotEqual(t, "photos/old.png", out.Profile.Photo)
	assert.NotContains(t, f.storage.files, "photos/old.png")
	assert.Contains(t, f.storage.files, out.Profile.Photo)
}

func TestUser_UpdateEmail(t *testing.T) {
	f := newUserFixture(t)

	out, err := f.uc.UpdateEmail(context.Background(), f.user, dto.UpdateEmailRequest{Email: "Ana.Nueva@Test.io"})

	require.NoError(t, err)
	assert.Equal(t, "ana.nueva@test.io", out.Email)
}

// ── Delete ──────────────────────────────────────────────────────────────────

func TestUser_Delete_NoPuedeBorrarseASiMismo(t *testing.T) {
	f := newUserFixture(t)

	err := f.uc.Delete(context.Background(), f.admin, adminID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUser_Delete_BorraUsuarioYFoto(t *testing.T) {
	f := newUserFixture(t)

	err := f.uc.Delete(context.Background(), f.admin, userID)

	require.NoError(t, err)
	assert.NotContains(t, f.store.users, userID)
	assert.NotContains(t, f.storage.files, "photos/old.png")
	require.Len(t, f.store.logs, 1)
	assert.Equal(t, entity.ActionDeleted, f.store.logs[0].Action)
}
