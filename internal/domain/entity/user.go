package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleContador  = "contador"
	RoleVendedor  = "vendedor"
)

// User representa un usuario del back office.
// RepresentativeID se llena solo para usuarios con rol vendedor.
type User struct {
	ID               string
	Email            string
	PasswordHash     string // bcrypt
	Name             string
	Role             string
	RepresentativeID string
	Status           string // active, inactive
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
