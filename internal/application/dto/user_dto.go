package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}

// ProfileFields datos de perfil compartidos por alta, edición y perfil propio.
type ProfileFields struct {
	FullName string `json:"full_name" form:"full_name" validate:"required,max=255"`
	Phone    string `json:"phone" form:"phone" validate:"omitempty,max=50"`
	Address  string `json:"address" form:"address" validate:"omitempty,max=500"`
	City     string `json:"city" form:"city" validate:"omitempty,max=100"`
	PostCode string `json:"post_code" form:"post_code" validate:"omitempty,max=20"`
	Country  string `json:"country" form:"country" validate:"omitempty,max=100"`
}

// CreateUserRequest alta de usuario por un admin (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Name     string `json:"name" form:"name" validate:"required,alphanum,min=3,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required"`
	Role     string `json:"role" form:"role" validate:"omitempty,oneof=admin user"`
	ProfileFields
}

// UpdateUserRequest edición de usuario por un admin. Password vacío = no cambia.
type UpdateUserRequest struct {
	Name     string `json:"name" form:"name" validate:"required,alphanum,min=3,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"omitempty"`
	Role     string `json:"role" form:"role" validate:"omitempty,oneof=admin user"`
	ProfileFields
}

// UpdateProfileRequest body de PUT /api/user/profile.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,alphanum,min=3,max=50"`
	ProfileFields
}

// UpdateEmailRequest body de PUT /api/user/email.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// UpdatePasswordRequest body de PUT /api/user/password.
type UpdatePasswordRequest struct {
	CurrentPassword      string `json:"current_password" validate:"required"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ProfileResponse perfil del usuario.
type ProfileResponse struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	PostCode string `json:"post_code"`
	Country  string `json:"country"`
	Photo    string `json:"photo"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ActivityLogResponse registro de la bitácora.
type ActivityLogResponse struct {
	ID        string         `json:"id"`
	ActorID   string         `json:"actor_id"`
	Action    string         `json:"action"`
	Model     string         `json:"model"`
	ModelID   string         `json:"model_id"`
	Changes   map[string]any `json:"changes"`
	IPAddress string         `json:"ip_address"`
	UserAgent string         `json:"user_agent"`
	CreatedAt time.Time      `json:"created_at"`
}

// ActivityLogListResponse lista paginada de la bitácora.
type ActivityLogListResponse struct {
	Items []ActivityLogResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// RequestMeta datos del cliente HTTP que se guardan en la bitácora.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// ActivityLogQuery filtros de GET /api/admin/activity-logs.
type ActivityLogQuery struct {
	Limit   int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset  int    `query:"offset" validate:"omitempty,min=0"`
	ActorID string `query:"actor_id" validate:"omitempty,uuid"`
	Model   string `query:"model" validate:"omitempty,oneof=invoice customer user company_setting"`
}
