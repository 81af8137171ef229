package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleCajero = "cajero"
)

// User representa un usuario del punto de venta.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Username     string
	Role         string // admin, cajero
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene capacidad de administrador.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
