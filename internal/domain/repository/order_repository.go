package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// SaleOrderRepository defines the interface for sale order data operations
type SaleOrderRepository interface {
	// Create inserts the header and all of its items.
	Create(ctx context.Context, order *entity.SaleOrder) error
	// GetByID returns the order with items, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleOrder, error)
	// GetForUpdate is GetByID with the header row locked until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.SaleOrder, error)
	// ConfirmDraft moves a draft order to confirmed in one conditional
	// statement. It reports false when the order is missing or not a draft.
	ConfirmDraft(ctx context.Context, id uuid.UUID) (bool, error)
	// AddBilledQty increases billed_qty of one line unless that would exceed
	// the ordered qty, in which case it reports false.
	AddBilledQty(ctx context.Context, itemID uuid.UUID, qty decimal.Decimal) (bool, error)
	List(ctx context.Context, params *SaleOrderFilterParams) ([]entity.SaleOrder, int64, error)
	CountByStatus(ctx context.Context, status enum.OrderStatus) (int64, error)
}

// SaleOrderFilterParams contains filtering parameters for sale order queries
type SaleOrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     enum.OrderStatus
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Create inserts the header and all of its items.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination  *pagination.PaginationParams
	Status      string
	SaleOrderID *uuid.UUID
}

// SequenceRepository hands out document numbers.
type SequenceRepository interface {
	// Next atomically increments and returns the counter for scope/period,
	// starting at 1.
	Next(ctx context.Context, scope, period string) (int64, error)
}
