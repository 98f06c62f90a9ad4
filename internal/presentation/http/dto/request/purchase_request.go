package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseItemRequest is one line of a new purchase order
type PurchaseItemRequest struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Qty        decimal.Decimal `json:"qty"`
	PriceExVat decimal.Decimal `json:"price_ex_vat"`
}

// CreatePurchaseOrderRequest represents a purchase order creation request
type CreatePurchaseOrderRequest struct {
	TeamID uuid.UUID             `json:"team_id"`
	Vendor string                `json:"vendor" binding:"max=255"`
	Notes  string                `json:"notes"`
	Items  []PurchaseItemRequest `json:"items"`
}

// ReceivePurchaseOrderRequest carries an optional note for the stock moves
type ReceivePurchaseOrderRequest struct {
	Note string `json:"note"`
}

// PurchaseListRequest filters the purchase order list
type PurchaseListRequest struct {
	Search   string `form:"q"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
