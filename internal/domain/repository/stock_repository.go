package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockMapping is the item/warehouse pair a product's stock is kept under.
type StockMapping struct {
	ProductID     uuid.UUID
	ItemID        uuid.UUID
	WarehouseID   uuid.UUID
	CostingMethod string
}

// StockLevelRow is a stock level joined with its SKU and warehouse code.
type StockLevelRow struct {
	SKU           string          `json:"sku"`
	WarehouseCode string          `json:"wh"`
	OnHand        decimal.Decimal `json:"on_hand"`
	Reserved      decimal.Decimal `json:"reserved"`
	AvgCost       decimal.Decimal `json:"avg_cost"`
}

// StockCardFilter narrows the moves returned for a stock card.
type StockCardFilter struct {
	SKU           string
	WarehouseCode string
	From          *time.Time
	To            *time.Time
	Limit         int
}

// StockCardMove is a move joined with the warehouse code it touched.
type StockCardMove struct {
	entity.StockMove
	WarehouseCode string
}

// DailyNet is the net signed quantity moved on one calendar day.
type DailyNet struct {
	Day time.Time
	Net decimal.Decimal
}

// InboundLayer is one inbound move, the unit a FIFO valuation consumes.
type InboundLayer struct {
	SKU           string
	WarehouseCode string
	Qty           decimal.Decimal
	UnitCost      decimal.Decimal
	CreatedAt     time.Time
}

// StockRepository defines the interface for the stock ledger
type StockRepository interface {
	// EnsureMapping creates the item, warehouse and product mapping for the
	// product if they do not exist yet. Existing rows are left untouched.
	EnsureMapping(ctx context.Context, product *entity.Product, warehouseCode, costingMethod string) error
	// GetMappingBySKU returns nil when the product has no mapping.
	GetMappingBySKU(ctx context.Context, sku string) (*StockMapping, error)
	CreateMove(ctx context.Context, move *entity.StockMove) error
	// IncreaseLevel adds qty to on_hand and folds unitCost into the moving
	// average cost, creating the level row if needed.
	IncreaseLevel(ctx context.Context, itemID, warehouseID uuid.UUID, qty, unitCost decimal.Decimal) error
	// DecreaseLevel subtracts qty from on_hand only when enough is on hand.
	// It reports false when stock is insufficient.
	DecreaseLevel(ctx context.Context, itemID, warehouseID uuid.UUID, qty decimal.Decimal) (bool, error)
	GetLevelsBySKU(ctx context.Context, sku string) ([]StockLevelRow, error)
	// ListLevels returns every stock level ordered by sku and warehouse.
	ListLevels(ctx context.Context) ([]StockLevelRow, error)
	// ListInboundLayers returns all IN moves, newest first within each
	// sku and warehouse.
	ListInboundLayers(ctx context.Context) ([]InboundLayer, error)
	// ListMoves returns moves for a stock card in chronological order.
	ListMoves(ctx context.Context, filter StockCardFilter) ([]StockCardMove, error)
	// BalanceBefore is the net quantity of all moves strictly before t.
	BalanceBefore(ctx context.Context, sku, warehouseCode string, t time.Time) (decimal.Decimal, error)
	// DailyNetSince groups moves at or after since by day in loc.
	DailyNetSince(ctx context.Context, sku string, since time.Time, loc *time.Location) ([]DailyNet, error)
	CountSKUsInStock(ctx context.Context) (int64, error)
}
