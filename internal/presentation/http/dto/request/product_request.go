package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpsertProductRequest represents a product create-or-update request
type UpsertProductRequest struct {
	SKU         string          `json:"sku" binding:"max=64"`
	Name        string          `json:"name" binding:"max=255"`
	Description string          `json:"description"`
	Unit        string          `json:"unit" binding:"max=16"`
	PriceExVat  decimal.Decimal `json:"price_ex_vat"`
	TeamID      *uuid.UUID      `json:"team_id"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	TeamID   string `form:"team_id"`
	Search   string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
