package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)
var _ repository.InventoryStatusRepository = (*InventoryStatusRepo)(nil)

const movementColumns = `id, product_id, quantity, movement_type, document_reference, invoice_item_id, notes, draft, created_at`

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(mov *entity.InventoryMovement) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, product_id, quantity, movement_type, document_reference, invoice_item_id, notes, draft, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.ProductID, mov.Quantity, mov.MovementType,
		nullIfEmpty(mov.DocumentReference), nullIfEmpty(mov.InvoiceItemID),
		mov.Notes, mov.Draft, mov.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID, o nil si no existe.
func (r *InventoryMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	mov, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return mov, nil
}

// SetDraft cambia el flag draft de un lote de movimientos. Devuelve cuántas filas
// cambiaron (las que ya tenían el valor no cuentan).
func (r *InventoryMovementRepo) SetDraft(ids []string, draft bool) (int, error) {
	query := `UPDATE inventory_movements SET draft = $2 WHERE id = ANY($1) AND draft <> $2`
	tag, err := r.q.Exec(context.Background(), query, ids, draft)
	if err != nil {
		return 0, fmt.Errorf("set draft: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Delete elimina un movimiento.
func (r *InventoryMovementRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM inventory_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movimiento: %w", err)
	}
	return nil
}

// DistinctProducts devuelve los product_id distintos del lote de movimientos.
func (r *InventoryMovementRepo) DistinctProducts(ids []string) ([]string, error) {
	query := `SELECT DISTINCT product_id FROM inventory_movements WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("distinct productos: %w", err)
	}
	defer rows.Close()
	var products []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product_id: %w", err)
		}
		products = append(products, id)
	}
	return products, rows.Err()
}

// SumConfirmed suma por separado las entradas y salidas confirmadas (no draft)
// del producto. Es la base de la derivación de stock.
func (r *InventoryMovementRepo) SumConfirmed(productID string) (entradas, salidas decimal.Decimal, err error) {
	query := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'entrada'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'salida'), 0)
		FROM inventory_movements
		WHERE product_id = $1 AND NOT draft`
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&entradas, &salidas); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum movimientos: %w", err)
	}
	return entradas, salidas, nil
}

// ListByProduct lista los movimientos de un producto, más recientes primero.
func (r *InventoryMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.listMovements(query, productID, limit, offset)
}

// List lista movimientos paginados, más recientes primero.
func (r *InventoryMovementRepo) List(limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM inventory_movements
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.listMovements(query, limit, offset)
}

func (r *InventoryMovementRepo) listMovements(query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		mov, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, mov)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var docRef, invoiceItemID *string
	if err := row.Scan(&m.ID, &m.ProductID, &m.Quantity, &m.MovementType,
		&docRef, &invoiceItemID, &m.Notes, &m.Draft, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.DocumentReference = derefStr(docRef)
	m.InvoiceItemID = derefStr(invoiceItemID)
	return &m, nil
}

// InventoryStatusRepo implementación del cache de stock sobre PostgreSQL.
type InventoryStatusRepo struct {
	q Querier
}

// NewInventoryStatusRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryStatusRepository(q Querier) *InventoryStatusRepo {
	return &InventoryStatusRepo{q: q}
}

// Get devuelve el stock cacheado del producto, o nil si nunca se materializó.
func (r *InventoryStatusRepo) Get(productID string) (*entity.InventoryStatus, error) {
	query := `SELECT product_id, current_stock, last_updated FROM inventory_status WHERE product_id = $1`
	var st entity.InventoryStatus
	err := r.q.QueryRow(context.Background(), query, productID).Scan(&st.ProductID, &st.CurrentStock, &st.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &st, nil
}

// Upsert escribe el stock derivado del producto (único por producto).
func (r *InventoryStatusRepo) Upsert(status *entity.InventoryStatus) error {
	query := `
		INSERT INTO inventory_status (product_id, current_stock, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO UPDATE
		SET current_stock = EXCLUDED.current_stock, last_updated = EXCLUDED.last_updated`
	_, err := r.q.Exec(context.Background(), query,
		status.ProductID, status.CurrentStock, status.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// List devuelve el cache de stock completo.
func (r *InventoryStatusRepo) List() ([]*entity.InventoryStatus, error) {
	query := `SELECT product_id, current_stock, last_updated FROM inventory_status ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryStatus
	for rows.Next() {
		var st entity.InventoryStatus
		if err := rows.Scan(&st.ProductID, &st.CurrentStock, &st.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &st)
	}
	return list, rows.Err()
}
