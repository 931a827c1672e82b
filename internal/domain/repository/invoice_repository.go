package repository

import "github.com/decoracionesmori/gestion-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para comprobantes y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la fila del comprobante (SELECT FOR UPDATE) para que
	// la transición de estado y el check-and-set de InventoryProcessed sean atómicos
	// frente a guardados concurrentes.
	GetByIDForUpdate(id string) (*entity.Invoice, error)
	Update(invoice *entity.Invoice) error
	// MaxNumberInSeries devuelve el mayor número asignado en la serie (0 si ninguno).
	// Debe llamarse dentro de una transacción que serialice la serie.
	MaxNumberInSeries(series string) (int, error)
	// LockSeries serializa la asignación de números dentro de una serie.
	LockSeries(series string) error
	List(limit, offset int) ([]*entity.Invoice, error)
	ListByClient(clientID string) ([]*entity.Invoice, error)

	CreateItem(item *entity.InvoiceItem) error
	ListItems(invoiceID string) ([]*entity.InvoiceItem, error)
	// HasComponentItem reporta si ya existe una línea product generada por la
	// expansión de la línea service indicada, para el producto dado (guarda
	// anti-duplicado de la expansión BOM).
	HasComponentItem(invoiceID, serviceItemID, productID string) (bool, error)
}
