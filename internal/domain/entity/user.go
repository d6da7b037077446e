package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Name         string // nombre de usuario, único
	Email        string
	PasswordHash string // bcrypt
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Profile *Profile
}

// Profile datos personales del usuario (uno a uno).
type Profile struct {
	UserID    string
	FullName  string
	Phone     string
	Address   string
	City      string
	PostCode  string
	Country   string
	Photo     string // clave en el almacenamiento de archivos
	UpdatedAt time.Time
}
