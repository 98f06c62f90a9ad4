package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrder is an order placed with a vendor. Receiving it books the
// ordered quantities into stock.
type PurchaseOrder struct {
	ID         uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Number     string              `gorm:"size:40;uniqueIndex;not null" json:"po_no"`
	TeamID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"team_id"`
	Vendor     string              `gorm:"size:255;not null" json:"vendor"`
	Notes      string              `gorm:"type:text;not null;default:''" json:"notes"`
	IssueDate  time.Time           `gorm:"type:date;not null" json:"issue_date"`
	Status     enum.PurchaseStatus `gorm:"size:20;not null;default:'ordered';index" json:"status"`
	Subtotal   decimal.Decimal     `gorm:"type:numeric(18,2);not null;default:0" json:"subtotal"`
	ReceivedAt *time.Time          `json:"received_at,omitempty"`
	CreatedBy  *uuid.UUID          `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`

	Team  *Team               `gorm:"foreignKey:TeamID" json:"-"`
	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase order
func (p *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseOrder model
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItem is one ordered product. SKU and name are copied from the
// product when the order is placed.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"po_id"`
	LineNo          int             `gorm:"not null" json:"line_no"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	SKU             string          `gorm:"column:sku;size:100;not null" json:"sku"`
	Name            string          `gorm:"size:255;not null;default:''" json:"name"`
	Qty             decimal.Decimal `gorm:"type:numeric(18,4);not null;check:chk_purchase_order_items_qty,qty > 0" json:"qty"`
	PriceExVat      decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"price_ex_vat"`
	AmountExVat     decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"amount_ex_vat"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new line
func (i *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseOrderItem model
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}
