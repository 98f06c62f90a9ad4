package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
)

// periodLayout renders a business day as YYMMDD.
const periodLayout = "060102"

// NumberingService issues human-readable document numbers. Counters live in
// the database so numbers are unique across processes; a caller whose
// transaction rolls back gives its number back.
type NumberingService struct {
	seqRepo  repository.SequenceRepository
	settings Settings
}

// NewNumberingService creates a new numbering service
func NewNumberingService(seqRepo repository.SequenceRepository, settings Settings) *NumberingService {
	return &NumberingService{
		seqRepo:  seqRepo,
		settings: settings.withDefaults(),
	}
}

// Period returns the counter period for t in loc.
func Period(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(periodLayout)
}

// SaleOrderScope is the counter scope for a team's sale orders.
func SaleOrderScope(teamCode string) string {
	return "SO:" + strings.ToUpper(strings.TrimSpace(teamCode))
}

// PurchaseOrderScope is the counter scope for a team's purchase orders.
func PurchaseOrderScope(teamCode string) string {
	return "PO:" + strings.ToUpper(strings.TrimSpace(teamCode))
}

// InvoiceScope is the counter scope for one invoice type.
func InvoiceScope(t enum.InvoiceType) string {
	return "IV:" + t.Code()
}

// FormatSaleOrderNumber renders SO-<TEAM>-<YYMMDD>-<NNNN>.
func FormatSaleOrderNumber(teamCode, period string, n int64) string {
	return fmt.Sprintf("SO-%s-%s-%04d", strings.ToUpper(strings.TrimSpace(teamCode)), period, n)
}

// FormatPurchaseOrderNumber renders PO-<TEAM>-<YYMMDD>-<NNNN>.
func FormatPurchaseOrderNumber(teamCode, period string, n int64) string {
	return fmt.Sprintf("PO-%s-%s-%04d", strings.ToUpper(strings.TrimSpace(teamCode)), period, n)
}

// FormatInvoiceNumber renders IV<D|F>-<YYMMDD>-<NNNN>.
func FormatInvoiceNumber(t enum.InvoiceType, period string, n int64) string {
	return fmt.Sprintf("IV%s-%s-%04d", t.Code(), period, n)
}

// Next returns the next counter value for scope and period. It must be
// called inside the transaction that uses the number.
func (s *NumberingService) Next(ctx context.Context, scope, period string) (int64, error) {
	n, err := s.seqRepo.Next(ctx, scope, period)
	if err != nil {
		return 0, fmt.Errorf("next number for %s/%s: %w", scope, period, err)
	}
	return n, nil
}

// NextSaleOrderNumber returns a fresh sale order number for teamCode on the business day of at.
func (s *NumberingService) NextSaleOrderNumber(ctx context.Context, teamCode string, at time.Time) (string, error) {
	period := Period(at, s.settings.Location)
	n, err := s.Next(ctx, SaleOrderScope(teamCode), period)
	if err != nil {
		return "", err
	}
	return FormatSaleOrderNumber(teamCode, period, n), nil
}

// NextInvoiceNumber returns a fresh invoice number for type t on the business day of at.
func (s *NumberingService) NextInvoiceNumber(ctx context.Context, t enum.InvoiceType, at time.Time) (string, error) {
	period := Period(at, s.settings.Location)
	n, err := s.Next(ctx, InvoiceScope(t), period)
	if err != nil {
		return "", err
	}
	return FormatInvoiceNumber(t, period, n), nil
}

// NextPurchaseOrderNumber returns a fresh purchase order number for teamCode on the business day of at.
func (s *NumberingService) NextPurchaseOrderNumber(ctx context.Context, teamCode string, at time.Time) (string, error) {
	period := Period(at, s.settings.Location)
	n, err := s.Next(ctx, PurchaseOrderScope(teamCode), period)
	if err != nil {
		return "", err
	}
	return FormatPurchaseOrderNumber(teamCode, period, n), nil
}
