package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, invoice_type, series, number, date_issued, client_id, appointment_id,
	status, payment_method, payment_reference, subtotal, igv, total, advance_payment,
	pending_balance, inventory_processed, notes, created_by, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL
// (usable con pool o tx). Tablas: boleta_venta y detalle_boleta.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera del comprobante.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO boleta_venta (id, invoice_type, series, number, date_issued, client_id, appointment_id,
			status, payment_method, payment_reference, subtotal, igv, total, advance_payment,
			pending_balance, inventory_processed, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.InvoiceType, inv.Series, inv.Number, inv.DateIssued,
		inv.ClientID, nullIfEmpty(inv.AppointmentID), inv.Status,
		nullIfEmpty(inv.PaymentMethod), nullIfEmpty(inv.PaymentReference),
		inv.Subtotal, inv.IGV, inv.Total, inv.AdvancePayment, inv.PendingBalance,
		inv.InventoryProcessed, inv.Notes, nullIfEmpty(inv.CreatedBy),
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert comprobante: %w", err)
	}
	return nil
}

// GetByID obtiene un comprobante por ID, o nil si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM boleta_venta WHERE id = $1`
	return r.getOne(query, id)
}

// GetByIDForUpdate obtiene el comprobante bloqueando su fila (SELECT FOR UPDATE).
// Debe invocarse dentro de una transacción; serializa la transición de estado y el
// check-and-set de inventory_processed frente a pagos concurrentes.
func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM boleta_venta WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *InvoiceRepo) getOne(query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comprobante: %w", err)
	}
	return inv, nil
}

// Update actualiza los campos mutables del comprobante.
func (r *InvoiceRepo) Update(inv *entity.Invoice) error {
	query := `
		UPDATE boleta_venta
		SET number = $2, date_issued = $3, status = $4, payment_method = $5,
		    payment_reference = $6, subtotal = $7, igv = $8, total = $9,
		    advance_payment = $10, pending_balance = $11, inventory_processed = $12,
		    notes = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Number, inv.DateIssued, inv.Status,
		nullIfEmpty(inv.PaymentMethod), nullIfEmpty(inv.PaymentReference),
		inv.Subtotal, inv.IGV, inv.Total, inv.AdvancePayment, inv.PendingBalance,
		inv.InventoryProcessed, inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update comprobante: %w", err)
	}
	return nil
}

// MaxNumberInSeries devuelve el mayor número asignado en la serie (0 si ninguno).
func (r *InvoiceRepo) MaxNumberInSeries(series string) (int, error) {
	query := `SELECT COALESCE(MAX(number), 0) FROM boleta_venta WHERE series = $1`
	var max int
	if err := r.q.QueryRow(context.Background(), query, series).Scan(&max); err != nil {
		return 0, fmt.Errorf("max número de serie: %w", err)
	}
	return max, nil
}

// LockSeries serializa la asignación de números de una serie bloqueando sus filas
// numeradas. Debe invocarse dentro de una transacción.
func (r *InvoiceRepo) LockSeries(series string) error {
	query := `SELECT id FROM boleta_venta WHERE series = $1 AND number IS NOT NULL FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, series)
	if err != nil {
		return fmt.Errorf("lock serie: %w", err)
	}
	rows.Close()
	return rows.Err()
}

// List lista comprobantes paginados, más recientes primero.
func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + ` FROM boleta_venta
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.listInvoices(query, limit, offset)
}

// ListByClient lista los comprobantes de un cliente.
func (r *InvoiceRepo) ListByClient(clientID string) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + ` FROM boleta_venta
		WHERE client_id = $1 ORDER BY created_at DESC`
	return r.listInvoices(query, clientID)
}

func (r *InvoiceRepo) listInvoices(query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comprobantes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comprobante: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// CreateItem persiste una línea de detalle.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO detalle_boleta (id, invoice_id, item_type, service_id, product_id, description,
			quantity, unit_price, discount, subtotal, appointment_id, component_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ItemType,
		nullIfEmpty(item.ServiceID), nullIfEmpty(item.ProductID), item.Description,
		item.Quantity, item.UnitPrice, item.Discount, item.Subtotal,
		nullIfEmpty(item.AppointmentID), nullIfEmpty(item.ComponentOf),
	)
	if err != nil {
		return fmt.Errorf("insert detalle: %w", err)
	}
	return nil
}

// ListItems lista las líneas de un comprobante en orden de inserción.
func (r *InvoiceRepo) ListItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, item_type, service_id, product_id, description,
		       quantity, unit_price, discount, subtotal, appointment_id, component_of
		FROM detalle_boleta WHERE invoice_id = $1 ORDER BY ctid`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list detalles: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		var serviceID, productID, appointmentID, componentOf *string
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ItemType, &serviceID, &productID,
			&it.Description, &it.Quantity, &it.UnitPrice, &it.Discount, &it.Subtotal,
			&appointmentID, &componentOf); err != nil {
			return nil, fmt.Errorf("scan detalle: %w", err)
		}
		it.ServiceID = derefStr(serviceID)
		it.ProductID = derefStr(productID)
		it.AppointmentID = derefStr(appointmentID)
		it.ComponentOf = derefStr(componentOf)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// HasComponentItem reporta si ya existe una línea product generada por la expansión
// de la línea service indicada, para el producto dado.
func (r *InvoiceRepo) HasComponentItem(invoiceID, serviceItemID, productID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM detalle_boleta
			WHERE invoice_id = $1 AND component_of = $2 AND product_id = $3
		)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, invoiceID, serviceItemID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check componente expandido: %w", err)
	}
	return exists, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var appointmentID, paymentMethod, paymentReference, createdBy *string
	if err := row.Scan(
		&inv.ID, &inv.InvoiceType, &inv.Series, &inv.Number, &inv.DateIssued,
		&inv.ClientID, &appointmentID, &inv.Status, &paymentMethod, &paymentReference,
		&inv.Subtotal, &inv.IGV, &inv.Total, &inv.AdvancePayment, &inv.PendingBalance,
		&inv.InventoryProcessed, &inv.Notes, &createdBy, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.AppointmentID = derefStr(appointmentID)
	inv.PaymentMethod = derefStr(paymentMethod)
	inv.PaymentReference = derefStr(paymentReference)
	inv.CreatedBy = derefStr(createdBy)
	return &inv, nil
}
