package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultUnit is used for products and order lines created without a unit.
const DefaultUnit = "EA"

// Product represents a sellable product, identified externally by SKU
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TeamID      *uuid.UUID      `gorm:"type:uuid;index" json:"team_id,omitempty"`
	SKU         string          `gorm:"column:sku;size:100;uniqueIndex;not null" json:"sku"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Unit        string          `gorm:"size:20;not null;default:'EA'" json:"unit"`
	PriceExVat  decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"price_ex_vat"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Team *Team `gorm:"foreignKey:TeamID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
