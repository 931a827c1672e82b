package repository

import "github.com/decoracionesmori/gestion-api/internal/domain/entity"

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	// GetByDNI devuelve el cliente con ese documento, o nil si no existe.
	GetByDNI(dni string) (*entity.Client, error)
	GetByEmail(email string) (*entity.Client, error)
	Update(client *entity.Client) error
	List(limit, offset int) ([]*entity.Client, error)
}

// UserRepository define el puerto de persistencia para usuarios autenticables.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	// FindByEmail devuelve el usuario con ese email, o nil si no existe.
	FindByEmail(email string) (*entity.User, error)
}
