package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line of a new sale order
type OrderItemRequest struct {
	ProductID   *uuid.UUID       `json:"product_id"`
	Description string           `json:"description"`
	Qty         decimal.Decimal  `json:"qty"`
	Unit        string           `json:"unit" binding:"max=16"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	PriceExVat  *decimal.Decimal `json:"price_ex_vat"`
}

// Price returns unit_price, falling back to price_ex_vat.
func (r *OrderItemRequest) Price() decimal.Decimal {
	switch {
	case r.UnitPrice != nil:
		return *r.UnitPrice
	case r.PriceExVat != nil:
		return *r.PriceExVat
	}
	return decimal.Zero
}

// CreateOrderRequest represents a sale order creation request
type CreateOrderRequest struct {
	TeamID     uuid.UUID          `json:"team_id"`
	CustomerID uuid.UUID          `json:"customer_id"`
	Currency   string             `json:"currency" binding:"omitempty,len=3"`
	Items      []OrderItemRequest `json:"items" binding:"dive"`
}

// ListFilterRequest filters document lists by status
type ListFilterRequest struct {
	Status   string `form:"status"`
	SOID     string `form:"so_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// InvoiceLineRequest bills part of one order line
type InvoiceLineRequest struct {
	SOItemID uuid.UUID       `json:"so_item_id"`
	Qty      decimal.Decimal `json:"qty"`
}

// IssueInvoiceRequest represents an invoice issue request. SOID is taken
// from the path on /sales-orders/:id/issue-iv.
type IssueInvoiceRequest struct {
	SOID   uuid.UUID            `json:"so_id"`
	Type   string               `json:"type"`
	Status string               `json:"status" binding:"max=20"`
	Items  []InvoiceLineRequest `json:"items"`
}
