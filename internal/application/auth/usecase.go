package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
	"github.com/jhoicas/invoicing-api/pkg/jwt"
)

// MsgLoggedOut respuesta de logout. Los tokens no se revocan: el cliente lo descarta.
const MsgLoggedOut = "Logged out successfully"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login y usuario actual.
type AuthUseCase struct {
	userRepo repository.UserRepository
	storage  usecase.FileStorage
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. storage solo se usa para la URL de la foto.
func NewAuthUseCase(userRepo repository.UserRepository, storage usecase.FileStorage, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, storage: storage, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email inexistente y contraseña incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !usecase.PasswordMatches(user.PasswordHash, in.Password) {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *usecase.ToUserResponse(user, uc.storage),
	}, nil
}

// Me devuelve el usuario del token. Si ya no existe, ErrUnauthorized.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return usecase.ToUserResponse(user, uc.storage), nil
}
