package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementEntrada = "entrada"
	MovementSalida  = "salida"
)

// InventoryMovement es una entrada del libro de movimientos (append-only).
// Un movimiento en borrador (Draft=true) no afecta el stock hasta confirmarse;
// fuera del flag Draft, los movimientos no se mutan (auditoría).
type InventoryMovement struct {
	ID                string
	ProductID         string
	Quantity          decimal.Decimal
	MovementType      string
	DocumentReference string // comprobante u orden que originó el movimiento
	InvoiceItemID     string // línea de comprobante que lo generó, si aplica
	Notes             string
	Draft             bool
	CreatedAt         time.Time
}

// InventoryStatus es el stock actual cacheado de un producto.
// Es un valor derivado: siempre recomputable como Σ(entrada,¬draft) − Σ(salida,¬draft);
// nunca fuente de verdad independiente.
type InventoryStatus struct {
	ProductID    string
	CurrentStock decimal.Decimal
	LastUpdated  time.Time
}
