package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decoracionesmori/gestion-api/internal/application/billing"
	"github.com/decoracionesmori/gestion-api/internal/application/inventory"
	"github.com/decoracionesmori/gestion-api/internal/application/scheduling"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

var _ scheduling.TxRunner = (*SchedulingTxRunner)(nil)
var _ inventory.TxRunner = (*InventoryTxRunner)(nil)
var _ billing.TxRunner = (*BillingTxRunner)(nil)

// runInTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func runInTx(ctx context.Context, pool *pgxpool.Pool, fn func(q Querier) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SchedulingTxRunner ejecuta callbacks de agenda dentro de una transacción,
// entregando un repositorio de citas atado a ella (el bloqueo de fecha y el
// conteo de cupo viven en la misma tx que la inserción).
type SchedulingTxRunner struct {
	pool *pgxpool.Pool
}

// NewSchedulingTxRunner construye el runner con el pool.
func NewSchedulingTxRunner(pool *pgxpool.Pool) *SchedulingTxRunner {
	return &SchedulingTxRunner{pool: pool}
}

// Run implementa scheduling.TxRunner.
func (r *SchedulingTxRunner) Run(ctx context.Context, fn func(apptRepo repository.AppointmentRepository) error) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		return fn(NewAppointmentRepository(q))
	})
}

// InventoryTxRunner ejecuta callbacks de inventario dentro de una transacción,
// entregando repositorios de movimientos y de stock atados a ella.
type InventoryTxRunner struct {
	pool *pgxpool.Pool
}

// NewInventoryTxRunner construye el runner con el pool.
func NewInventoryTxRunner(pool *pgxpool.Pool) *InventoryTxRunner {
	return &InventoryTxRunner{pool: pool}
}

// Run implementa inventory.TxRunner.
func (r *InventoryTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	statusRepo repository.InventoryStatusRepository,
) error) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		return fn(NewInventoryMovementRepository(q), NewInventoryStatusRepository(q))
	})
}

// BillingTxRunner ejecuta callbacks de facturación dentro de una transacción.
// La transición de pago toca comprobante, cita e inventario: los cuatro
// repositorios van atados a la misma tx.
type BillingTxRunner struct {
	pool *pgxpool.Pool
}

// NewBillingTxRunner construye el runner con el pool.
func NewBillingTxRunner(pool *pgxpool.Pool) *BillingTxRunner {
	return &BillingTxRunner{pool: pool}
}

// Run implementa billing.TxRunner.
func (r *BillingTxRunner) Run(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	apptRepo repository.AppointmentRepository,
	movRepo repository.InventoryMovementRepository,
	statusRepo repository.InventoryStatusRepository,
) error) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		return fn(
			NewInvoiceRepository(q),
			NewAppointmentRepository(q),
			NewInventoryMovementRepository(q),
			NewInventoryStatusRepository(q),
		)
	})
}
