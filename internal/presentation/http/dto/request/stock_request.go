package request

import "github.com/shopspring/decimal"

// ReceiveStockRequest represents a goods receipt
type ReceiveStockRequest struct {
	SKU      string          `json:"sku"`
	Qty      decimal.Decimal `json:"qty"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	RefNo    string          `json:"ref_no" binding:"max=64"`
	Note     string          `json:"note"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	SKU  string          `json:"sku"`
	Qty  decimal.Decimal `json:"qty"`
	Note string          `json:"note"`
}

// StockCardRequest represents stock card query parameters
type StockCardRequest struct {
	SKU       string `form:"sku"`
	Warehouse string `form:"wh"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	Limit     int    `form:"limit"`
}

// StockTrendRequest represents stock trend query parameters
type StockTrendRequest struct {
	SKU  string `form:"sku"`
	Days int    `form:"days"`
}
