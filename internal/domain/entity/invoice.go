package entity

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comprobante.
const (
	InvoiceTypeBoleta  = "boleta"
	InvoiceTypeFactura = "factura"
)

// Estados de un comprobante. Pagada y anulada son terminales.
const (
	InvoiceStatusBorrador = "borrador"
	InvoiceStatusEmitida  = "emitida"
	InvoiceStatusPagada   = "pagada"
	InvoiceStatusAnulada  = "anulada"
)

// Métodos de pago aceptados.
const (
	PaymentMethodEfectivo      = "efectivo"
	PaymentMethodTarjeta       = "tarjeta"
	PaymentMethodTransferencia = "transferencia"
	PaymentMethodYape          = "yape"
	PaymentMethodPlin          = "plin"
	PaymentMethodOtro          = "otro"
)

// Invoice representa una boleta de venta o factura.
// Number se asigna una sola vez, al salir de borrador; la pareja (Series, Number) es única.
// InventoryProcessed marca que la transición a pagada ya descargó el inventario y no
// debe volver a hacerlo.
type Invoice struct {
	ID                 string
	InvoiceType        string
	Series             string
	Number             *int
	DateIssued         time.Time
	ClientID           string
	AppointmentID      string // opcional: cita relacionada
	Status             string
	PaymentMethod      string
	PaymentReference   string
	Subtotal           decimal.Decimal
	IGV                decimal.Decimal
	Total              decimal.Decimal
	AdvancePayment     decimal.Decimal
	PendingBalance     decimal.Decimal
	InventoryProcessed bool
	Notes              string
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsTerminal reporta si el comprobante ya no admite transiciones (pagada o anulada).
func (i *Invoice) IsTerminal() bool {
	return i.Status == InvoiceStatusPagada || i.Status == InvoiceStatusAnulada
}

// DocumentReference devuelve la referencia "serie-número" del comprobante
// ("B001-(borrador)" mientras no tenga número asignado).
func (i *Invoice) DocumentReference() string {
	if i.Number == nil {
		return i.Series + "-(borrador)"
	}
	return i.Series + "-" + strconv.Itoa(*i.Number)
}
