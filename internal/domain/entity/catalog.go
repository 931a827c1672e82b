package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Priceable es la capacidad de tener un precio de lista.
// Reemplaza la resolución por atributos dinámicos: todo lo que se puede facturar
// (servicio o producto) expone su precio a través de esta interfaz.
type Priceable interface {
	Price() decimal.Decimal
}

// Service es un servicio de decoración ofrecido en el catálogo.
type Service struct {
	ID          string
	Name        string
	Description string
	BasePrice   decimal.Decimal
	Active      bool
	CreatedAt   time.Time
}

// Price implementa Priceable.
func (s *Service) Price() decimal.Decimal { return s.BasePrice }

// ServiceComponent es un producto componente de un servicio: al facturar el servicio
// se agregan Quantity unidades del producto por cada unidad de servicio.
type ServiceComponent struct {
	ID        string
	ServiceID string
	ProductID string
	Quantity  decimal.Decimal
}

// Product es un producto del catálogo con control de inventario.
type Product struct {
	ID           string
	Name         string
	Description  string
	PricePerUnit decimal.Decimal
	Unit         string // unidad de medida (ej. "unidad", "metro", "rollo")
	StockMin     decimal.Decimal
	Active       bool
	CreatedAt    time.Time
}

// Price implementa Priceable.
func (p *Product) Price() decimal.Decimal { return p.PricePerUnit }
