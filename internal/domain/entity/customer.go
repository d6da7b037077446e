package entity

import "time"

// Customer representa un cliente; pertenece a un único usuario.
type Customer struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
