package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	domainRepo "github.com/sangkips/svs-ops-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Upsert(ctx context.Context, product *entity.Product) error {
	db := conn(ctx, r.db)
	err := db.Clauses(productUpsertClause(product)).Create(product).Error
	if err != nil {
		return err
	}

	// on conflict the generated id was discarded, so read back the stored row
	var stored entity.Product
	if err := db.First(&stored, "sku = ?", product.SKU).Error; err != nil {
		return err
	}
	*product = stored
	return nil
}

// productUpsertClause updates an existing SKU in place. team_id is only
// overwritten when the caller names a team.
func productUpsertClause(product *entity.Product) clause.OnConflict {
	columns := []string{"name", "description", "unit", "price_ex_vat", "updated_at"}
	if product.TeamID != nil {
		columns = append(columns, "team_id")
	}
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := conn(ctx, r.db).Model(&entity.Product{}).Where("team_id = ?", params.TeamID)

	if params.Search != "" {
		query = query.Where("sku ILIKE ? OR name ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PageSize).
		Order("sku ASC").
		Find(&products).Error

	return products, total, err
}
