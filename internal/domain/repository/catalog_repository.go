package repository

import "github.com/decoracionesmori/gestion-api/internal/domain/entity"

// ServiceRepository define el puerto de persistencia para servicios del catálogo.
type ServiceRepository interface {
	Create(service *entity.Service) error
	GetByID(id string) (*entity.Service, error)
	List() ([]*entity.Service, error)
	// ListComponents devuelve la lista de materiales del servicio (expansión BOM).
	ListComponents(serviceID string) ([]*entity.ServiceComponent, error)
	AddComponent(component *entity.ServiceComponent) error
}

// ProductRepository define el puerto de persistencia para productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List() ([]*entity.Product, error)
	Update(product *entity.Product) error
}
