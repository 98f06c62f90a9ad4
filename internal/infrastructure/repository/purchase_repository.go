package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	domainRepo "github.com/sangkips/svs-ops-api/internal/domain/repository"
	"gorm.io/gorm"
)

type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db *gorm.DB) domainRepo.PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return conn(ctx, r.db).Omit("Team").Create(po).Error
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		First(&po, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &po, err
}

func (r *purchaseOrderRepository) MarkReceived(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := conn(ctx, r.db).Model(&entity.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, enum.PurchaseStatusOrdered).
		Updates(map[string]interface{}{
			"status":      enum.PurchaseStatusReceived,
			"received_at": now,
			"updated_at":  now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, params *domainRepo.PurchaseOrderFilterParams) ([]entity.PurchaseOrder, int64, error) {
	var orders []entity.PurchaseOrder
	var total int64

	query := conn(ctx, r.db).Model(&entity.PurchaseOrder{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("vendor ILIKE ? OR number ILIKE ?", like, like)
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
