package entity

import "github.com/shopspring/decimal"

// Tipos de ítem de un comprobante.
const (
	ItemTypeService = "service"
	ItemTypeProduct = "product"
	ItemTypeOther   = "other"
)

// InvoiceItem es una línea de detalle de un comprobante.
// Las líneas de tipo service se expanden automáticamente en líneas product por cada
// componente configurado del servicio (lista de materiales), con guarda anti-duplicado.
type InvoiceItem struct {
	ID            string
	InvoiceID     string
	ItemType      string
	ServiceID     string // requerido cuando ItemType == service
	ProductID     string // requerido cuando ItemType == product
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal
	Subtotal      decimal.Decimal
	AppointmentID string // opcional: cita que originó la línea
	ComponentOf   string // ID de la línea service que generó esta línea product (expansión BOM)
}

// ComputeSubtotal recalcula Subtotal = UnitPrice*Quantity - Discount.
func (it *InvoiceItem) ComputeSubtotal() {
	it.Subtotal = it.UnitPrice.Mul(it.Quantity).Sub(it.Discount)
}
