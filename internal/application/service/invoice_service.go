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

var hundred = decimal.NewFromInt(100)

// InvoiceService issues invoices against confirmed sale orders
type InvoiceService struct {
	tx          repository.Transactor
	orderRepo   repository.SaleOrderRepository
	invoiceRepo repository.InvoiceRepository
	numbering   *NumberingService
	settings    Settings
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	tx repository.Transactor,
	orderRepo repository.SaleOrderRepository,
	invoiceRepo repository.InvoiceRepository,
	numbering *NumberingService,
	settings Settings,
) *InvoiceService {
	return &InvoiceService{
		tx:          tx,
		orderRepo:   orderRepo,
		invoiceRepo: invoiceRepo,
		numbering:   numbering,
		settings:    settings.withDefaults(),
	}
}

// InvoiceLineInput selects how much of one order line to bill
type InvoiceLineInput struct {
	SaleOrderItemID uuid.UUID
	Qty             decimal.Decimal
}

// IssueInvoiceInput represents the issue invoice input. When Items is empty
// every line is billed for its outstanding quantity.
type IssueInvoiceInput struct {
	SaleOrderID uuid.UUID
	Type        string
	Status      string
	Items       []InvoiceLineInput
	CreatedBy   *uuid.UUID
}

// IssueInvoice creates an invoice for the unbilled part of a confirmed order
// and advances billed_qty on the order lines, all in one transaction.
func (s *InvoiceService) IssueInvoice(ctx context.Context, input *IssueInvoiceInput) (*entity.Invoice, error) {
	if input.SaleOrderID == uuid.Nil {
		return nil, apperror.NewBadRequestError("so_id required")
	}
	ivType, ok := enum.ParseInvoiceType(input.Type)
	if !ok {
		return nil, apperror.NewBadRequestError("type must be domestic or foreign")
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = enum.InvoiceStatusIssued
	}
	if len(status) > entity.InvoiceStatusMaxLen {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("status must be at most %d characters", entity.InvoiceStatusMaxLen))
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	var invoice *entity.Invoice
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetForUpdate(ctx, input.SaleOrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("sale order")
		}
		if order.Status != enum.OrderStatusConfirmed {
			return apperror.NewBadRequestError("sale order must be confirmed before invoicing")
		}

		billing, err := billingQuantities(order.Items, input.Items)
		if err != nil {
			return err
		}

		issued := s.settings.today()
		number, err := s.numbering.NextInvoiceNumber(ctx, ivType, issued)
		if err != nil {
			return err
		}

		invoice = &entity.Invoice{
			Number:      number,
			Type:        ivType,
			SaleOrderID: order.ID,
			CustomerID:  order.CustomerID,
			IssueDate:   issued,
			DueDate:     issued.AddDate(0, 0, entity.PaymentTermDays),
			Currency:    order.Currency,
			Status:      status,
			CreatedBy:   input.CreatedBy,
		}

		subtotal, vatTotal := decimal.Zero, decimal.Zero
		for _, line := range order.Items {
			qty, ok := billing[line.ID]
			if !ok {
				continue
			}
			amount := qty.Mul(line.UnitPrice).Round(2)
			vat := amount.Mul(entity.DefaultVATRate).Div(hundred).Round(2)
			description := line.Description
			if description == "" {
				description = "-"
			}
			invoice.Items = append(invoice.Items, entity.InvoiceItem{
				SaleOrderItemID: line.ID,
				LineNo:          len(invoice.Items) + 1,
				ProductID:       line.ProductID,
				Description:     description,
				Qty:             qty,
				Unit:            line.Unit,
				UnitPrice:       line.UnitPrice,
				AmountExVat:     amount,
				VatRate:         entity.DefaultVATRate,
				VatAmount:       vat,
			})
			subtotal = subtotal.Add(amount)
			vatTotal = vatTotal.Add(vat)
		}
		invoice.Subtotal = subtotal
		invoice.VatAmount = vatTotal
		invoice.Total = subtotal.Add(vatTotal)

		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			return apperror.FromDB(err, "invoice number already exists")
		}

		for _, item := range invoice.Items {
			ok, err := s.orderRepo.AddBilledQty(ctx, item.SaleOrderItemID, item.Qty)
			if err != nil {
				return apperror.FromDB(err, "")
			}
			if !ok {
				return apperror.NewConflictError("billed quantity exceeds ordered quantity")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// billingQuantities resolves the quantity to bill per order line. Lines
// with nothing to bill are left out.
func billingQuantities(lines []entity.SaleOrderItem, requested []InvoiceLineInput) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(lines))

	if len(requested) == 0 {
		for i := range lines {
			if out := lines[i].Outstanding(); out.IsPositive() {
				result[lines[i].ID] = out
			}
		}
	} else {
		byID := make(map[uuid.UUID]*entity.SaleOrderItem, len(lines))
		for i := range lines {
			byID[lines[i].ID] = &lines[i]
		}
		for _, req := range requested {
			line, ok := byID[req.SaleOrderItemID]
			if !ok {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("item %s does not belong to this sale order", req.SaleOrderItemID))
			}
			if !req.Qty.IsPositive() {
				return nil, apperror.NewBadRequestError("qty must be greater than 0")
			}
			total := result[line.ID].Add(req.Qty)
			if total.GreaterThan(line.Outstanding()) {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("line %d: qty exceeds outstanding quantity %s", line.LineNo, line.Outstanding()))
			}
			result[line.ID] = total
		}
	}

	if len(result) == 0 {
		return nil, apperror.NewBadRequestError("nothing left to bill")
	}
	return result, nil
}

// GetInvoice retrieves an invoice with its lines
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("invoice")
	}
	return invoice, nil
}

// ListInvoices retrieves invoices newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, status string, saleOrderID *uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	params.Validate()
	invoices, total, err := s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		Pagination:  params,
		Status:      strings.TrimSpace(status),
		SaleOrderID: saleOrderID,
	})
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(invoices, pagination.NewPagination(params.Page, params.PageSize, total)), nil
}
