package entity

import "time"

// Roles de usuario del sistema.
const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleCliente = "cliente"
)

// User es un usuario autenticable: personal administrativo, personal de servicio o
// un cliente con cuenta.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	ClientID     string // para usuarios de rol cliente, su registro de cliente
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff reporta si el usuario puede operar sobre citas y comprobantes ajenos.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleStaff
}
