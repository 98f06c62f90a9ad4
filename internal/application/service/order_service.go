package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
	"github.com/sangkips/svs-ops-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for orders created without a currency.
const DefaultCurrency = "THB"

// OrderService handles sale order operations
type OrderService struct {
	tx           repository.Transactor
	orderRepo    repository.SaleOrderRepository
	teamRepo     repository.TeamRepository
	customerRepo repository.CustomerRepository
	numbering    *NumberingService
	settings     Settings
}

// NewOrderService creates a new order service
func NewOrderService(
	tx repository.Transactor,
	orderRepo repository.SaleOrderRepository,
	teamRepo repository.TeamRepository,
	customerRepo repository.CustomerRepository,
	numbering *NumberingService,
	settings Settings,
) *OrderService {
	return &OrderService{
		tx:           tx,
		orderRepo:    orderRepo,
		teamRepo:     teamRepo,
		customerRepo: customerRepo,
		numbering:    numbering,
		settings:     settings.withDefaults(),
	}
}

// OrderItemInput represents a line in a new order
type OrderItemInput struct {
	ProductID   *uuid.UUID
	Description string
	Qty         decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	TeamID     uuid.UUID
	CustomerID uuid.UUID
	Currency   string
	Items      []OrderItemInput
	CreatedBy  *uuid.UUID
}

func (in *CreateOrderInput) validate() error {
	if in.TeamID == uuid.Nil || in.CustomerID == uuid.Nil || len(in.Items) == 0 {
		return apperror.NewBadRequestError("team_id, customer_id, items[] required")
	}
	for i, item := range in.Items {
		if !item.Qty.IsPositive() {
			return apperror.NewBadRequestError(fmt.Sprintf("items[%d]: qty must be greater than 0", i))
		}
		if item.UnitPrice.IsNegative() {
			return apperror.NewBadRequestError(fmt.Sprintf("items[%d]: unit_price must not be negative", i))
		}
	}
	return nil
}

// CreateOrder creates a draft order and all of its lines in one transaction
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.SaleOrder, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	var order *entity.SaleOrder
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		team, err := s.teamRepo.GetByID(ctx, input.TeamID)
		if err != nil {
			return err
		}
		if team == nil {
			return apperror.NewNotFoundError("team")
		}

		customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("customer")
		}

		issued := s.settings.today()
		number, err := s.numbering.NextSaleOrderNumber(ctx, team.Code, issued)
		if err != nil {
			return err
		}

		items := make([]entity.SaleOrderItem, 0, len(input.Items))
		for i, in := range input.Items {
			unit := strings.TrimSpace(in.Unit)
			if unit == "" {
				unit = entity.DefaultUnit
			}
			items = append(items, entity.SaleOrderItem{
				LineNo:      i + 1,
				ProductID:   in.ProductID,
				Description: in.Description,
				Qty:         in.Qty,
				Unit:        unit,
				UnitPrice:   in.UnitPrice,
				AmountExVat: in.Qty.Mul(in.UnitPrice),
				BilledQty:   decimal.Zero,
			})
		}

		order = &entity.SaleOrder{
			Number:     number,
			TeamID:     team.ID,
			CustomerID: customer.ID,
			IssueDate:  issued,
			Currency:   currency,
			Status:     enum.OrderStatusDraft,
			CreatedBy:  input.CreatedBy,
			Items:      items,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return apperror.FromDB(err, "sale order number already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmOrder moves a draft order to confirmed
func (s *OrderService) ConfirmOrder(ctx context.Context, id uuid.UUID) (*entity.SaleOrder, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	ok, err := s.orderRepo.ConfirmDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewBadRequestError("cannot confirm (not found or not in draft)")
	}
	return s.getOrder(ctx, id)
}

// GetOrder retrieves an order with its lines
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.SaleOrder, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()
	return s.getOrder(ctx, id)
}

func (s *OrderService) getOrder(ctx context.Context, id uuid.UUID) (*entity.SaleOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("sale order")
	}
	return order, nil
}

// ListOrders retrieves orders newest first, optionally filtered by status
func (s *OrderService) ListOrders(ctx context.Context, status string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.SaleOrder], error) {
	st := enum.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && !st.IsValid() {
		return nil, apperror.NewBadRequestError("status must be draft or confirmed")
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	params.Validate()
	orders, total, err := s.orderRepo.List(ctx, &repository.SaleOrderFilterParams{
		Pagination: params,
		Status:     st,
	})
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(orders, pagination.NewPagination(params.Page, params.PageSize, total)), nil
}
