package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	domainRepo "github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// signedQty is the SQL expression for a move's quantity with its direction applied.
const signedQty = "CASE WHEN m.move_type = 'OUT' THEN -m.qty ELSE m.qty END"

// moveWarehouse is the warehouse a move touched.
const moveWarehouse = "CASE WHEN m.move_type = 'OUT' THEN m.wh_from ELSE m.wh_to END"

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock ledger repository
func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) EnsureMapping(ctx context.Context, product *entity.Product, warehouseCode, costingMethod string) error {
	db := conn(ctx, r.db)

	newItem := entity.Item{SKU: product.SKU, Name: product.Name}
	if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "sku"}}, DoNothing: true}).
		Create(&newItem).Error; err != nil {
		return err
	}
	var item entity.Item
	if err := db.First(&item, "sku = ?", product.SKU).Error; err != nil {
		return err
	}

	newWh := entity.Warehouse{Code: warehouseCode, Name: warehouseCode}
	if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&newWh).Error; err != nil {
		return err
	}
	var wh entity.Warehouse
	if err := db.First(&wh, "code = ?", warehouseCode).Error; err != nil {
		return err
	}

	mapping := entity.ProductItemWhMap{
		ProductID:     product.ID,
		ItemID:        item.ID,
		WarehouseID:   wh.ID,
		CostingMethod: costingMethod,
	}
	return db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "product_id"}}, DoNothing: true}).
		Create(&mapping).Error
}

func (r *stockRepository) GetMappingBySKU(ctx context.Context, sku string) (*domainRepo.StockMapping, error) {
	var rows []domainRepo.StockMapping
	err := conn(ctx, r.db).Raw(`
		SELECT m.product_id, m.item_id, m.warehouse_id, m.costing_method
		FROM product_item_wh_map m
		JOIN products p ON p.id = m.product_id
		WHERE p.sku = ?
		LIMIT 1
	`, sku).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *stockRepository) CreateMove(ctx context.Context, move *entity.StockMove) error {
	return conn(ctx, r.db).Create(move).Error
}

func (r *stockRepository) IncreaseLevel(ctx context.Context, itemID, warehouseID uuid.UUID, qty, unitCost decimal.Decimal) error {
	// A zero unit cost (e.g. a positive adjustment) leaves the average untouched.
	return conn(ctx, r.db).Exec(`
		INSERT INTO stock_levels (item_id, warehouse_id, on_hand, reserved, avg_cost, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT (item_id, warehouse_id) DO UPDATE SET
			avg_cost = CASE
				WHEN EXCLUDED.avg_cost = 0 THEN stock_levels.avg_cost
				WHEN stock_levels.on_hand <= 0 THEN EXCLUDED.avg_cost
				ELSE ROUND((stock_levels.on_hand * stock_levels.avg_cost + EXCLUDED.on_hand * EXCLUDED.avg_cost)
					/ (stock_levels.on_hand + EXCLUDED.on_hand), 4)
			END,
			on_hand = stock_levels.on_hand + EXCLUDED.on_hand,
			updated_at = EXCLUDED.updated_at
	`, itemID, warehouseID, qty, unitCost, time.Now()).Error
}

func (r *stockRepository) DecreaseLevel(ctx context.Context, itemID, warehouseID uuid.UUID, qty decimal.Decimal) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.StockLevel{}).
		Where("item_id = ? AND warehouse_id = ? AND on_hand >= ?", itemID, warehouseID, qty).
		Updates(map[string]interface{}{
			"on_hand":    gorm.Expr("on_hand - ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

const levelRowsQuery = `
	SELECT i.sku, w.code AS warehouse_code, s.on_hand, s.reserved, s.avg_cost
	FROM stock_levels s
	JOIN items i ON i.id = s.item_id
	JOIN warehouses w ON w.id = s.warehouse_id
`

func (r *stockRepository) GetLevelsBySKU(ctx context.Context, sku string) ([]domainRepo.StockLevelRow, error) {
	var rows []domainRepo.StockLevelRow
	err := conn(ctx, r.db).Raw(levelRowsQuery+" WHERE i.sku = ? ORDER BY w.code", sku).Scan(&rows).Error
	return rows, err
}

func (r *stockRepository) ListLevels(ctx context.Context) ([]domainRepo.StockLevelRow, error) {
	var rows []domainRepo.StockLevelRow
	err := conn(ctx, r.db).Raw(levelRowsQuery + " ORDER BY i.sku, w.code").Scan(&rows).Error
	return rows, err
}

func (r *stockRepository) ListInboundLayers(ctx context.Context) ([]domainRepo.InboundLayer, error) {
	var rows []domainRepo.InboundLayer
	err := conn(ctx, r.db).Raw(`
		SELECT i.sku, w.code AS warehouse_code, m.qty, m.unit_cost, m.created_at
		FROM stock_moves m
		JOIN items i ON i.id = m.item_id
		JOIN warehouses w ON w.id = m.wh_to
		WHERE m.move_type = ?
		ORDER BY i.sku, w.code, m.created_at DESC, m.id DESC
	`, enum.MoveTypeIn).Scan(&rows).Error
	return rows, err
}

type stockCardRow struct {
	ID            uuid.UUID
	MoveType      enum.MoveType
	RefNo         string
	RefType       string
	ItemID        uuid.UUID
	WhFrom        *uuid.UUID
	WhTo          *uuid.UUID
	Qty           decimal.Decimal
	UnitCost      decimal.Decimal
	Note          string
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
	WarehouseCode string
}

func (r *stockRepository) ListMoves(ctx context.Context, filter domainRepo.StockCardFilter) ([]domainRepo.StockCardMove, error) {
	query := conn(ctx, r.db).Table("stock_moves AS m").
		Select("m.id, m.move_type, m.ref_no, m.ref_type, m.item_id, m.wh_from, m.wh_to, m.qty, m.unit_cost, m.note, m.created_by, m.created_at, w.code AS warehouse_code").
		Joins("JOIN items i ON i.id = m.item_id").
		Joins("LEFT JOIN warehouses w ON w.id = " + moveWarehouse).
		Where("i.sku = ?", filter.SKU)
	query = applyMoveFilter(query, filter.WarehouseCode, filter.From, filter.To)

	var rows []stockCardRow
	if err := query.Order("m.created_at ASC, m.id ASC").Limit(filter.Limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	moves := make([]domainRepo.StockCardMove, 0, len(rows))
	for _, row := range rows {
		moves = append(moves, domainRepo.StockCardMove{
			StockMove: entity.StockMove{
				ID:        row.ID,
				MoveType:  row.MoveType,
				RefNo:     row.RefNo,
				RefType:   row.RefType,
				ItemID:    row.ItemID,
				WhFrom:    row.WhFrom,
				WhTo:      row.WhTo,
				Qty:       row.Qty,
				UnitCost:  row.UnitCost,
				Note:      row.Note,
				CreatedBy: row.CreatedBy,
				CreatedAt: row.CreatedAt,
			},
			WarehouseCode: row.WarehouseCode,
		})
	}
	return moves, nil
}

func (r *stockRepository) BalanceBefore(ctx context.Context, sku, warehouseCode string, t time.Time) (decimal.Decimal, error) {
	query := conn(ctx, r.db).Table("stock_moves AS m").
		Select("COALESCE(SUM("+signedQty+"), 0) AS total").
		Joins("JOIN items i ON i.id = m.item_id").
		Joins("LEFT JOIN warehouses w ON w.id = "+moveWarehouse).
		Where("i.sku = ? AND m.created_at < ?", sku, t)
	query = applyMoveFilter(query, warehouseCode, nil, nil)

	var out struct {
		Total decimal.Decimal
	}
	err := query.Scan(&out).Error
	return out.Total, err
}

func (r *stockRepository) DailyNetSince(ctx context.Context, sku string, since time.Time, loc *time.Location) ([]domainRepo.DailyNet, error) {
	var rows []struct {
		Day string
		Net decimal.Decimal
	}
	err := conn(ctx, r.db).Raw(`
		SELECT to_char(m.created_at AT TIME ZONE ?, 'YYYY-MM-DD') AS day,
		       SUM(`+signedQty+`) AS net
		FROM stock_moves m
		JOIN items i ON i.id = m.item_id
		WHERE i.sku = ? AND m.created_at >= ?
		GROUP BY 1
		ORDER BY 1
	`, loc.String(), sku, since).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]domainRepo.DailyNet, 0, len(rows))
	for _, row := range rows {
		day, err := time.ParseInLocation("2006-01-02", row.Day, loc)
		if err != nil {
			return nil, err
		}
		result = append(result, domainRepo.DailyNet{Day: day, Net: row.Net})
	}
	return result, nil
}

func (r *stockRepository) CountSKUsInStock(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.StockLevel{}).
		Where("on_hand > 0").
		Distinct("item_id").
		Count(&count).Error
	return count, err
}

func applyMoveFilter(query *gorm.DB, warehouseCode string, from, to *time.Time) *gorm.DB {
	if warehouseCode != "" {
		query = query.Where("w.code = ?", warehouseCode)
	}
	if from != nil {
		query = query.Where("m.created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("m.created_at < ?", *to)
	}
	return query
}
