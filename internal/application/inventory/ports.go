package inventory

import (
	"context"

	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// de movimientos y de stock atados a esa tx. Garantiza que cada movimiento y el
// recómputo de stock que lo acompaña sean atómicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		statusRepo repository.InventoryStatusRepository,
	) error) error
}
