package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// DefaultWarehouseCode is the warehouse products are mapped to on first use.
	DefaultWarehouseCode = "MAIN"
	// DefaultCostingMethod is recorded on new product mappings.
	DefaultCostingMethod = "FIFO"
)

// Item is the stock-side identity of a product
type Item struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SKU       string    `gorm:"column:sku;size:100;uniqueIndex;not null" json:"sku"`
	Name      string    `gorm:"size:255;not null;default:''" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Item) TableName() string {
	return "items"
}

// Warehouse is a stock location
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Code      string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:255;not null;default:''" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (w *Warehouse) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (Warehouse) TableName() string {
	return "warehouses"
}

// ProductItemWhMap ties a product to exactly one item/warehouse pair
type ProductItemWhMap struct {
	ProductID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	ItemID        uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	WarehouseID   uuid.UUID `gorm:"type:uuid;not null" json:"wh_id"`
	CostingMethod string    `gorm:"size:20;not null;default:'FIFO'" json:"costing_method"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ProductItemWhMap) TableName() string {
	return "product_item_wh_map"
}

// StockMove is an append-only ledger entry. Qty is always positive; the
// direction is carried by MoveType.
type StockMove struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	MoveType  enum.MoveType   `gorm:"size:3;not null" json:"move_type"`
	RefNo     string          `gorm:"size:64;not null;index" json:"ref_no"`
	RefType   string          `gorm:"size:20;not null" json:"ref_type"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_moves_item_created,priority:1" json:"item_id"`
	WhFrom    *uuid.UUID      `gorm:"type:uuid" json:"wh_from,omitempty"`
	WhTo      *uuid.UUID      `gorm:"type:uuid" json:"wh_to,omitempty"`
	Qty       decimal.Decimal `gorm:"type:numeric(18,4);not null;check:chk_stock_moves_qty,qty > 0" json:"qty"`
	UnitCost  decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"unit_cost"`
	Note      string          `gorm:"type:text;not null;default:''" json:"note"`
	CreatedBy *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time       `gorm:"index:idx_stock_moves_item_created,priority:2" json:"created_at"`
}

func (m *StockMove) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (StockMove) TableName() string {
	return "stock_moves"
}

// WarehouseID is the warehouse the move touches.
func (m *StockMove) WarehouseID() uuid.UUID {
	if m.MoveType == enum.MoveTypeOut && m.WhFrom != nil {
		return *m.WhFrom
	}
	if m.WhTo != nil {
		return *m.WhTo
	}
	return uuid.Nil
}

// SignedQty is Qty with the sign of the move direction.
func (m *StockMove) SignedQty() decimal.Decimal {
	if m.MoveType == enum.MoveTypeOut {
		return m.Qty.Neg()
	}
	return m.Qty
}

// StockLevel is the running balance per item and warehouse. It is written in
// the same transaction as every StockMove.
type StockLevel struct {
	ItemID      uuid.UUID       `gorm:"type:uuid;primaryKey" json:"item_id"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;primaryKey" json:"wh_id"`
	OnHand      decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"on_hand"`
	Reserved    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"reserved"`
	AvgCost     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"avg_cost"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (StockLevel) TableName() string {
	return "stock_levels"
}
