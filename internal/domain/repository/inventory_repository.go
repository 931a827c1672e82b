package repository

import (
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryMovementRepository define el puerto de persistencia del libro de movimientos.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	// SetDraft cambia el flag draft de un lote de movimientos y devuelve cuántos cambió.
	// Es la única mutación permitida sobre un movimiento existente.
	SetDraft(ids []string, draft bool) (int, error)
	Delete(id string) error
	// DistinctProducts devuelve los product_id distintos de un lote de movimientos.
	DistinctProducts(ids []string) ([]string, error)
	// SumConfirmed devuelve Σ(entrada) y Σ(salida) de movimientos confirmados
	// (draft=false) del producto. Base del recómputo de stock.
	SumConfirmed(productID string) (entradas, salidas decimal.Decimal, err error)
	ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error)
	List(limit, offset int) ([]*entity.InventoryMovement, error)
}

// InventoryStatusRepository define el puerto para el cache de stock actual.
type InventoryStatusRepository interface {
	// Get devuelve el estado del producto, o nil si nunca se ha materializado.
	Get(productID string) (*entity.InventoryStatus, error)
	Upsert(status *entity.InventoryStatus) error
	List() ([]*entity.InventoryStatus, error)
}
