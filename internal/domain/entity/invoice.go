package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultVATRate is the VAT percentage applied to every invoice line.
var DefaultVATRate = decimal.NewFromFloat(7.0)

// PaymentTermDays is the gap between issue date and due date.
const PaymentTermDays = 30

// InvoiceStatusMaxLen bounds the free-form invoice status column.
const InvoiceStatusMaxLen = 20

// Invoice bills some or all of a sale order. Immutable once created.
type Invoice struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Number      string           `gorm:"size:40;uniqueIndex;not null" json:"iv_no"`
	Type        enum.InvoiceType `gorm:"size:20;not null" json:"type"`
	SaleOrderID uuid.UUID        `gorm:"type:uuid;not null;index" json:"so_id"`
	CustomerID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id"`
	IssueDate   time.Time        `gorm:"type:date;not null" json:"issue_date"`
	DueDate     time.Time        `gorm:"type:date;not null" json:"due_date"`
	Currency    string           `gorm:"size:3;not null;default:'THB'" json:"currency"`
	Status      string           `gorm:"size:20;not null;default:'issued';index" json:"status"`
	Subtotal    decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"subtotal"`
	VatAmount   decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"vat_amount"`
	Total       decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"total"`
	CreatedBy   *uuid.UUID       `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`

	SaleOrder *SaleOrder    `gorm:"foreignKey:SaleOrderID" json:"-"`
	Items     []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (iv *Invoice) BeforeCreate(tx *gorm.DB) error {
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is a snapshot of a sale order line at issue time
type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	SaleOrderItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"so_item_id"`
	LineNo          int             `gorm:"not null" json:"line_no"`
	ProductID       *uuid.UUID      `gorm:"type:uuid" json:"product_id,omitempty"`
	Description     string          `gorm:"type:text;not null;default:''" json:"description"`
	Qty             decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"qty"`
	Unit            string          `gorm:"size:20;not null" json:"unit"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unit_price"`
	AmountExVat     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount_ex_vat"`
	VatRate         decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"vat_rate"`
	VatAmount       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"vat_amount"`
}

// BeforeCreate generates a UUID before creating a new invoice line
func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
