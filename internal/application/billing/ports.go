package billing

import (
	"context"
	"time"

	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, entregando repositorios ligados
// a ella. La transición de pago toca comprobante, citas e inventario en la misma
// transacción: o todo queda escrito o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		apptRepo repository.AppointmentRepository,
		movRepo repository.InventoryMovementRepository,
		statusRepo repository.InventoryStatusRepository,
	) error) error
}

// InventoryBridge es el puente pago→inventario: registra la salida confirmada de
// una línea de producto usando los repositorios de la transacción del caller.
type InventoryBridge interface {
	RegisterSalidaInTx(
		movRepo repository.InventoryMovementRepository,
		statusRepo repository.InventoryStatusRepository,
		item *entity.InvoiceItem,
		documentReference, notes string,
		now time.Time,
	) error
}
