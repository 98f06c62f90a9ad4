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

// refTypePO marks stock moves booked by a purchase order receipt.
const refTypePO = "PO"

const defaultReceiveNote = "PO receive"

// PurchaseService handles purchase order operations
type PurchaseService struct {
	tx          repository.Transactor
	poRepo      repository.PurchaseOrderRepository
	teamRepo    repository.TeamRepository
	productRepo repository.ProductRepository
	numbering   *NumberingService
	stock       *StockService
	settings    Settings
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	tx repository.Transactor,
	poRepo repository.PurchaseOrderRepository,
	teamRepo repository.TeamRepository,
	productRepo repository.ProductRepository,
	numbering *NumberingService,
	stock *StockService,
	settings Settings,
) *PurchaseService {
	return &PurchaseService{
		tx:          tx,
		poRepo:      poRepo,
		teamRepo:    teamRepo,
		productRepo: productRepo,
		numbering:   numbering,
		stock:       stock,
		settings:    settings.withDefaults(),
	}
}

// PurchaseItemInput represents an ordered product
type PurchaseItemInput struct {
	ProductID  uuid.UUID
	Qty        decimal.Decimal
	PriceExVat decimal.Decimal
}

// CreatePurchaseOrderInput represents the create purchase order input
type CreatePurchaseOrderInput struct {
	TeamID    uuid.UUID
	Vendor    string
	Notes     string
	Items     []PurchaseItemInput
	CreatedBy *uuid.UUID
}

func (in *CreatePurchaseOrderInput) validate() error {
	if in.TeamID == uuid.Nil || strings.TrimSpace(in.Vendor) == "" || len(in.Items) == 0 {
		return apperror.NewBadRequestError("team_id, vendor, items[] required")
	}
	for i, item := range in.Items {
		if item.ProductID == uuid.Nil {
			return apperror.NewBadRequestError(fmt.Sprintf("items[%d]: product_id required", i))
		}
		if !item.Qty.IsPositive() {
			return apperror.NewBadRequestError(fmt.Sprintf("items[%d]: qty must be greater than 0", i))
		}
		if item.PriceExVat.IsNegative() {
			return apperror.NewBadRequestError(fmt.Sprintf("items[%d]: price_ex_vat must not be negative", i))
		}
	}
	return nil
}

// CreatePurchaseOrder numbers and stores an order with its lines in one transaction
func (s *PurchaseService) CreatePurchaseOrder(ctx context.Context, input *CreatePurchaseOrderInput) (*entity.PurchaseOrder, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	var po *entity.PurchaseOrder
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		team, err := s.teamRepo.GetByID(ctx, input.TeamID)
		if err != nil {
			return err
		}
		if team == nil {
			return apperror.NewNotFoundError("team")
		}

		items := make([]entity.PurchaseOrderItem, 0, len(input.Items))
		subtotal := decimal.Zero
		for i, in := range input.Items {
			product, err := s.productRepo.GetByID(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return apperror.NewNotFoundError(fmt.Sprintf("product %s", in.ProductID))
			}
			amount := in.Qty.Mul(in.PriceExVat).Round(2)
			subtotal = subtotal.Add(amount)
			items = append(items, entity.PurchaseOrderItem{
				LineNo:      i + 1,
				ProductID:   product.ID,
				SKU:         product.SKU,
				Name:        product.Name,
				Qty:         in.Qty,
				PriceExVat:  in.PriceExVat,
				AmountExVat: amount,
			})
		}

		issued := s.settings.today()
		number, err := s.numbering.NextPurchaseOrderNumber(ctx, team.Code, issued)
		if err != nil {
			return err
		}

		po = &entity.PurchaseOrder{
			Number:    number,
			TeamID:    team.ID,
			Vendor:    strings.TrimSpace(input.Vendor),
			Notes:     strings.TrimSpace(input.Notes),
			IssueDate: issued,
			Status:    enum.PurchaseStatusOrdered,
			Subtotal:  subtotal,
			CreatedBy: input.CreatedBy,
			Items:     items,
		}
		if err := s.poRepo.Create(ctx, po); err != nil {
			return apperror.FromDB(err, "purchase order number already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// ReceivePurchaseOrderInput represents a receipt of everything on a purchase order
type ReceivePurchaseOrderInput struct {
	ID         uuid.UUID
	Note       string
	ReceivedBy *uuid.UUID
}

// PurchaseReceipt is the outcome of receiving a purchase order
type PurchaseReceipt struct {
	Order      *entity.PurchaseOrder `json:"order"`
	StockMoves []entity.StockMove    `json:"stock_moves"`
}

// ReceivePurchaseOrder marks an ordered purchase order received and books
// one inbound stock move per line at the ordered price. The status change
// and every move commit together or not at all.
func (s *PurchaseService) ReceivePurchaseOrder(ctx context.Context, input *ReceivePurchaseOrderInput) (*PurchaseReceipt, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	var receipt *PurchaseReceipt
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.poRepo.MarkReceived(ctx, input.ID)
		if err != nil {
			return err
		}
		po, err := s.poRepo.GetByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if po == nil {
			return apperror.NewNotFoundError("purchase order")
		}
		if !ok {
			return apperror.NewBadRequestError("purchase order already received")
		}

		note := orDefault(input.Note, defaultReceiveNote)
		receipt = &PurchaseReceipt{Order: po, StockMoves: make([]entity.StockMove, 0, len(po.Items))}
		for _, item := range po.Items {
			move, err := s.stock.Receive(ctx, &ReceiveStockInput{
				SKU:       item.SKU,
				Qty:       item.Qty,
				UnitCost:  item.PriceExVat,
				RefNo:     po.Number,
				RefType:   refTypePO,
				Note:      po.Number + " - " + note,
				CreatedBy: input.ReceivedBy,
			})
			if err != nil {
				return fmt.Errorf("receive %s: %w", item.SKU, err)
			}
			receipt.StockMoves = append(receipt.StockMoves, *move)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetPurchaseOrder retrieves a purchase order with its lines
func (s *PurchaseService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	po, err := s.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, apperror.NewNotFoundError("purchase order")
	}
	return po, nil
}

// ListPurchaseOrders retrieves purchase orders newest first
func (s *PurchaseService) ListPurchaseOrders(ctx context.Context, search, status string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.PurchaseOrder], error) {
	st := enum.PurchaseStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && !st.IsValid() {
		return nil, apperror.NewBadRequestError("status must be ordered or received")
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	params.Validate()
	orders, total, err := s.poRepo.List(ctx, &repository.PurchaseOrderFilterParams{
		Pagination: params,
		Status:     st,
		Search:     strings.TrimSpace(search),
	})
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(orders, pagination.NewPagination(params.Page, params.PageSize, total)), nil
}
