package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/pkg/pagination"
)

// PurchaseOrderRepository defines the interface for purchase order data operations
type PurchaseOrderRepository interface {
	// Create inserts the header and all of its items.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// GetByID returns the order with items, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error)
	// MarkReceived moves an ordered purchase order to received in one
	// conditional statement. It reports false when the order is missing or
	// was already received.
	MarkReceived(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, params *PurchaseOrderFilterParams) ([]entity.PurchaseOrder, int64, error)
}

// PurchaseOrderFilterParams contains filtering parameters for purchase order queries
type PurchaseOrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     enum.PurchaseStatus
	// Search matches the vendor or the order number.
	Search string
}
