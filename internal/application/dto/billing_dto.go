package dto

import "github.com/shopspring/decimal"

// CreateInvoiceRequest body para POST /api/invoices (comprobante en borrador).
type CreateInvoiceRequest struct {
	InvoiceType   string `json:"invoice_type"` // boleta | factura
	Series        string `json:"series,omitempty"`
	ClientID      string `json:"client_id"`
	AppointmentID string `json:"appointment_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// AddItemRequest body para POST /api/invoices/:id/items.
type AddItemRequest struct {
	ItemType    string          `json:"item_type"` // service | product | other
	ServiceID   string          `json:"service_id,omitempty"`
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
}

// RegisterPaymentRequest body para POST /api/invoices/:id/payments.
type RegisterPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
}

// InvoiceResponse representación de un comprobante con sus líneas.
type InvoiceResponse struct {
	ID                 string                `json:"id"`
	InvoiceType        string                `json:"invoice_type"`
	Series             string                `json:"series"`
	Number             *int                  `json:"number,omitempty"`
	DateIssued         string                `json:"date_issued"`
	ClientID           string                `json:"client_id"`
	AppointmentID      string                `json:"appointment_id,omitempty"`
	Status             string                `json:"status"`
	PaymentMethod      string                `json:"payment_method"`
	PaymentReference   string                `json:"payment_reference,omitempty"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	IGV                decimal.Decimal       `json:"igv"`
	Total              decimal.Decimal       `json:"total"`
	AdvancePayment     decimal.Decimal       `json:"advance_payment"`
	PendingBalance     decimal.Decimal       `json:"pending_balance"`
	InventoryProcessed bool                  `json:"inventory_processed"`
	Notes              string                `json:"notes,omitempty"`
	Items              []InvoiceItemResponse `json:"items"`
}

// InvoiceItemResponse representación de una línea de comprobante.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	ItemType    string          `json:"item_type"`
	ServiceID   string          `json:"service_id,omitempty"`
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
