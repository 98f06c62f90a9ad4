package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleOrder is a customer's commitment to buy the listed lines
type SaleOrder struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Number     string           `gorm:"size:40;uniqueIndex;not null" json:"so_no"`
	TeamID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"team_id"`
	CustomerID uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id"`
	IssueDate  time.Time        `gorm:"type:date;not null" json:"issue_date"`
	Currency   string           `gorm:"size:3;not null;default:'THB'" json:"currency"`
	Status     enum.OrderStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	CreatedBy  *uuid.UUID       `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	Team     *Team           `gorm:"foreignKey:TeamID" json:"-"`
	Customer *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleOrderItem `gorm:"foreignKey:SaleOrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale order
func (o *SaleOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleOrder model
func (SaleOrder) TableName() string {
	return "sale_orders"
}

// SaleOrderItem is one line of a sale order. Lines are never deleted.
type SaleOrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"so_id"`
	LineNo      int             `gorm:"not null" json:"line_no"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Description string          `gorm:"type:text;not null;default:''" json:"description"`
	Qty         decimal.Decimal `gorm:"type:numeric(18,4);not null;check:chk_sale_order_items_qty,qty > 0" json:"qty"`
	Unit        string          `gorm:"size:20;not null;default:'EA'" json:"unit"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unit_price"`
	AmountExVat decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"amount_ex_vat"`
	BilledQty   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0;check:chk_sale_order_items_billed,billed_qty >= 0 AND billed_qty <= qty" json:"billed_qty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new line
func (i *SaleOrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleOrderItem model
func (SaleOrderItem) TableName() string {
	return "sale_order_items"
}

// Outstanding returns the quantity not yet invoiced.
func (i *SaleOrderItem) Outstanding() decimal.Decimal {
	out := i.Qty.Sub(i.BilledQty)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
