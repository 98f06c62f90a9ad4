package service

import (
	"context"

	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	orderRepo   repository.SaleOrderRepository
	invoiceRepo repository.InvoiceRepository
	stockRepo   repository.StockRepository
	settings    Settings
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	orderRepo repository.SaleOrderRepository,
	invoiceRepo repository.InvoiceRepository,
	stockRepo repository.StockRepository,
	settings Settings,
) *DashboardService {
	return &DashboardService{
		orderRepo:   orderRepo,
		invoiceRepo: invoiceRepo,
		stockRepo:   stockRepo,
		settings:    settings.withDefaults(),
	}
}

// DashboardSummary represents the headline counters
type DashboardSummary struct {
	SOOpen   int64 `json:"soOpen"`
	SODraft  int64 `json:"soDraft"`
	IVIssued int64 `json:"ivIssued"`
	StockSKU int64 `json:"stockSku"`
}

// Summary counts confirmed and draft orders, issued invoices and SKUs in stock
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	var (
		out DashboardSummary
		err error
	)
	if out.SOOpen, err = s.orderRepo.CountByStatus(ctx, enum.OrderStatusConfirmed); err != nil {
		return nil, err
	}
	if out.SODraft, err = s.orderRepo.CountByStatus(ctx, enum.OrderStatusDraft); err != nil {
		return nil, err
	}
	if out.IVIssued, err = s.invoiceRepo.CountByStatus(ctx, enum.InvoiceStatusIssued); err != nil {
		return nil, err
	}
	if out.StockSKU, err = s.stockRepo.CountSKUsInStock(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}
