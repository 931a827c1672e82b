package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID         string          `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	MovementType      string          `json:"movement_type"` // entrada | salida
	DocumentReference string          `json:"document_reference,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Draft             bool            `json:"draft"`
}

// ToggleDraftRequest body para POST /api/inventory/movements/toggle-draft.
type ToggleDraftRequest struct {
	MovementIDs []string `json:"movement_ids"`
	Draft       bool     `json:"draft"`
}

// MovementResponse representación de un movimiento del libro.
type MovementResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	MovementType      string          `json:"movement_type"`
	DocumentReference string          `json:"document_reference,omitempty"`
	InvoiceItemID     string          `json:"invoice_item_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Draft             bool            `json:"draft"`
	CreatedAt         string          `json:"created_at"`
}

// StockStatusResponse stock actual cacheado de un producto.
type StockStatusResponse struct {
	ProductID    string          `json:"product_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	LastUpdated  string          `json:"last_updated"`
}
