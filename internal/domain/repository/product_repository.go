package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Upsert inserts the product or updates the existing row with the same SKU.
	// product is reloaded with the stored values.
	Upsert(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	TeamID     uuid.UUID
	Search     string
}
