package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	domainRepo "github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleOrderRepository struct {
	db *gorm.DB
}

// NewSaleOrderRepository creates a new sale order repository
func NewSaleOrderRepository(db *gorm.DB) domainRepo.SaleOrderRepository {
	return &saleOrderRepository{db: db}
}

func (r *saleOrderRepository) Create(ctx context.Context, order *entity.SaleOrder) error {
	return conn(ctx, r.db).Omit("Customer", "Team").Create(order).Error
}

func (r *saleOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleOrder, error) {
	var order entity.SaleOrder
	err := conn(ctx, r.db).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *saleOrderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.SaleOrder, error) {
	db := conn(ctx, r.db)

	var order entity.SaleOrder
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := db.Where("sale_order_id = ?", id).Order("line_no ASC").Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *saleOrderRepository) ConfirmDraft(ctx context.Context, id uuid.UUID) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.SaleOrder{}).
		Where("id = ? AND status = ?", id, enum.OrderStatusDraft).
		Updates(map[string]interface{}{
			"status":     enum.OrderStatusConfirmed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *saleOrderRepository) AddBilledQty(ctx context.Context, itemID uuid.UUID, qty decimal.Decimal) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.SaleOrderItem{}).
		Where("id = ? AND billed_qty + ? <= qty", itemID, qty).
		Updates(map[string]interface{}{
			"billed_qty": gorm.Expr("billed_qty + ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *saleOrderRepository) List(ctx context.Context, params *domainRepo.SaleOrderFilterParams) ([]entity.SaleOrder, int64, error) {
	var orders []entity.SaleOrder
	var total int64

	query := conn(ctx, r.db).Model(&entity.SaleOrder{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PageSize).
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *saleOrderRepository) CountByStatus(ctx context.Context, status enum.OrderStatus) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.SaleOrder{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
