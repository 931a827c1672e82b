package dto

import "github.com/shopspring/decimal"

// ServiceRequest body para crear un servicio del catálogo.
type ServiceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
}

// ServiceResponse representación de un servicio.
type ServiceResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	BasePrice   decimal.Decimal     `json:"base_price"`
	Active      bool                `json:"active"`
	Components  []ComponentResponse `json:"components,omitempty"`
}

// ComponentRequest body para agregar un producto a la lista de materiales.
type ComponentRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ComponentResponse componente de la lista de materiales de un servicio.
type ComponentResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ProductRequest body para crear un producto.
type ProductRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Unit         string          `json:"unit,omitempty"`
	StockMin     decimal.Decimal `json:"stock_min"`
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Unit         string          `json:"unit"`
	StockMin     decimal.Decimal `json:"stock_min"`
	Active       bool            `json:"active"`
}
