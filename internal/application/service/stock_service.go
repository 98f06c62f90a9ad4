package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
	"github.com/sangkips/svs-ops-api/pkg/xlsx"
	"github.com/shopspring/decimal"
)

const (
	DefaultStockCardLimit = 200
	MaxStockCardLimit     = 1000
	DefaultTrendDays      = 30
	MaxTrendDays          = 366
)

// Reference values written on moves created from the API.
const (
	refTypeUI  = "UI"
	refTypeAdj = "ADJ"
	refIn      = "UI-IN"
	refAdjIn   = "UI-ADJ+"
	refAdjOut  = "UI-ADJ-"
	noteIn     = "UI IN"
	noteAdj    = "UI ADJ"
)

const dateLayout = "2006-01-02"

var errInsufficientStock = apperror.NewBadRequestError("insufficient stock")

// StockService records stock movements and reads the ledger
type StockService struct {
	tx          repository.Transactor
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	settings    Settings
}

// NewStockService creates a new stock service
func NewStockService(
	tx repository.Transactor,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	settings Settings,
) *StockService {
	return &StockService{
		tx:          tx,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		settings:    settings.withDefaults(),
	}
}

// EnsureMapping makes sure the product with sku has an item and warehouse
// to keep stock under and returns that mapping. It joins the caller's
// transaction when ctx carries one.
func (s *StockService) EnsureMapping(ctx context.Context, sku string) (*repository.StockMapping, error) {
	product, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("product")
	}

	if err := s.stockRepo.EnsureMapping(ctx, product, entity.DefaultWarehouseCode, entity.DefaultCostingMethod); err != nil {
		return nil, fmt.Errorf("ensure stock mapping for %s: %w", sku, err)
	}

	mapping, err := s.stockRepo.GetMappingBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, fmt.Errorf("stock mapping for %s missing after ensure", sku)
	}
	return mapping, nil
}

// ReceiveStockInput represents a goods receipt. RefType defaults to UI for
// receipts entered by hand.
type ReceiveStockInput struct {
	SKU       string
	Qty       decimal.Decimal
	UnitCost  decimal.Decimal
	RefNo     string
	RefType   string
	Note      string
	CreatedBy *uuid.UUID
}

// Receive books an inbound move and raises the on-hand level
func (s *StockService) Receive(ctx context.Context, input *ReceiveStockInput) (*entity.StockMove, error) {
	sku := strings.TrimSpace(input.SKU)
	if sku == "" || !input.Qty.IsPositive() {
		return nil, apperror.NewBadRequestError("sku and positive qty required")
	}
	if input.UnitCost.IsNegative() {
		return nil, apperror.NewBadRequestError("unit_cost must not be negative")
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	var move *entity.StockMove
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		mapping, err := s.EnsureMapping(ctx, sku)
		if err != nil {
			return err
		}

		wh := mapping.WarehouseID
		move = &entity.StockMove{
			MoveType:  enum.MoveTypeIn,
			RefNo:     orDefault(input.RefNo, refIn),
			RefType:   orDefault(input.RefType, refTypeUI),
			ItemID:    mapping.ItemID,
			WhTo:      &wh,
			Qty:       input.Qty,
			UnitCost:  input.UnitCost,
			Note:      orDefault(input.Note, noteIn),
			CreatedBy: input.CreatedBy,
		}
		if err := s.stockRepo.CreateMove(ctx, move); err != nil {
			return apperror.FromDB(err, "")
		}
		return s.stockRepo.IncreaseLevel(ctx, mapping.ItemID, wh, input.Qty, input.UnitCost)
	})
	if err != nil {
		return nil, err
	}
	return move, nil
}

// AdjustStockInput represents a manual correction. A positive Qty adds
// stock, a negative one removes it.
type AdjustStockInput struct {
	SKU       string
	Qty       decimal.Decimal
	Note      string
	CreatedBy *uuid.UUID
}

// Adjust books a compensating move. Removing more than is on hand fails
// with insufficient stock and leaves the ledger untouched.
func (s *StockService) Adjust(ctx context.Context, input *AdjustStockInput) (*entity.StockMove, error) {
	sku := strings.TrimSpace(input.SKU)
	if sku == "" || input.Qty.IsZero() {
		return nil, apperror.NewBadRequestError("sku and non-zero qty required")
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	var move *entity.StockMove
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		mapping, err := s.EnsureMapping(ctx, sku)
		if err != nil {
			return err
		}

		wh := mapping.WarehouseID
		move = &entity.StockMove{
			RefType:   refTypeAdj,
			ItemID:    mapping.ItemID,
			Qty:       input.Qty.Abs(),
			UnitCost:  decimal.Zero,
			Note:      orDefault(input.Note, noteAdj),
			CreatedBy: input.CreatedBy,
		}
		if input.Qty.IsPositive() {
			move.MoveType = enum.MoveTypeIn
			move.RefNo = refAdjIn
			move.WhTo = &wh
		} else {
			move.MoveType = enum.MoveTypeOut
			move.RefNo = refAdjOut
			move.WhFrom = &wh
		}

		if err := s.stockRepo.CreateMove(ctx, move); err != nil {
			return apperror.FromDB(err, "")
		}

		if move.MoveType == enum.MoveTypeIn {
			return s.stockRepo.IncreaseLevel(ctx, mapping.ItemID, wh, move.Qty, decimal.Zero)
		}
		ok, err := s.stockRepo.DecreaseLevel(ctx, mapping.ItemID, wh, move.Qty)
		if err != nil {
			return err
		}
		if !ok {
			return errInsufficientStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return move, nil
}

// GetLevels returns the stock level of sku per warehouse
func (s *StockService) GetLevels(ctx context.Context, sku string) ([]repository.StockLevelRow, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, apperror.NewBadRequestError("sku required")
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	levels, err := s.stockRepo.GetLevelsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if levels == nil {
		levels = []repository.StockLevelRow{}
	}
	return levels, nil
}

// StockCardQuery selects the moves shown on a stock card. Dates are
// YYYY-MM-DD in the business timezone and both ends are inclusive.
type StockCardQuery struct {
	SKU       string
	Warehouse string
	DateFrom  string
	DateTo    string
	Limit     int
}

// StockCardLine is one move on a stock card
type StockCardLine struct {
	Date      time.Time       `json:"date"`
	MoveType  enum.MoveType   `json:"move_type"`
	RefNo     string          `json:"ref_no"`
	RefType   string          `json:"ref_type"`
	Warehouse string          `json:"wh"`
	Qty       decimal.Decimal `json:"qty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Balance   decimal.Decimal `json:"balance"`
	Note      string          `json:"note"`
}

// CellValues implements xlsx.Row.
func (l StockCardLine) CellValues() []interface{} {
	return []interface{}{
		l.Date.Format("2006-01-02 15:04:05"),
		string(l.MoveType),
		l.RefNo,
		l.RefType,
		l.Warehouse,
		l.Qty.InexactFloat64(),
		l.UnitCost.InexactFloat64(),
		l.Balance.InexactFloat64(),
		l.Note,
	}
}

var stockCardHeadings = []string{"Date", "Type", "Ref No", "Ref Type", "Warehouse", "Qty", "Unit Cost", "Balance", "Note"}

// StockCard is the running balance of one SKU over a period
type StockCard struct {
	SKU       string          `json:"sku"`
	Warehouse string          `json:"wh,omitempty"`
	Opening   decimal.Decimal `json:"opening"`
	Closing   decimal.Decimal `json:"closing"`
	Lines     []StockCardLine `json:"lines"`
}

// StockCard lists the moves of a SKU with signed quantities and a running
// balance that starts from the net of everything before DateFrom.
func (s *StockService) StockCard(ctx context.Context, q *StockCardQuery) (*StockCard, error) {
	filter, err := s.cardFilter(q)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	opening := decimal.Zero
	if filter.From != nil {
		opening, err = s.stockRepo.BalanceBefore(ctx, filter.SKU, filter.WarehouseCode, *filter.From)
		if err != nil {
			return nil, err
		}
	}

	moves, err := s.stockRepo.ListMoves(ctx, filter)
	if err != nil {
		return nil, err
	}

	card := &StockCard{
		SKU:       filter.SKU,
		Warehouse: filter.WarehouseCode,
		Opening:   opening,
		Lines:     make([]StockCardLine, 0, len(moves)),
	}
	balance := opening
	for i := range moves {
		m := &moves[i]
		qty := m.SignedQty()
		balance = balance.Add(qty)
		card.Lines = append(card.Lines, StockCardLine{
			Date:      m.CreatedAt.In(s.settings.Location),
			MoveType:  m.MoveType,
			RefNo:     m.RefNo,
			RefType:   m.RefType,
			Warehouse: m.WarehouseCode,
			Qty:       qty,
			UnitCost:  m.UnitCost,
			Balance:   balance,
			Note:      m.Note,
		})
	}
	card.Closing = balance
	return card, nil
}

// ExportStockCard writes the stock card as an .xlsx workbook to w
func (s *StockService) ExportStockCard(ctx context.Context, q *StockCardQuery, w io.Writer) error {
	card, err := s.StockCard(ctx, q)
	if err != nil {
		return err
	}
	return xlsx.Write(w, "Stock Card", stockCardHeadings, card.Lines)
}

// StockCardFilename is the download name for an exported stock card.
func StockCardFilename(sku string) string {
	return fmt.Sprintf("stock-card-%s.xlsx", strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '"' || r == ' ' {
			return '_'
		}
		return r
	}, sku))
}

func (s *StockService) cardFilter(q *StockCardQuery) (repository.StockCardFilter, error) {
	filter := repository.StockCardFilter{
		SKU:           strings.TrimSpace(q.SKU),
		WarehouseCode: strings.TrimSpace(q.Warehouse),
		Limit:         q.Limit,
	}
	if filter.SKU == "" {
		return filter, apperror.NewBadRequestError("sku required")
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultStockCardLimit
	}
	if filter.Limit > MaxStockCardLimit {
		filter.Limit = MaxStockCardLimit
	}

	if q.DateFrom != "" {
		from, err := time.ParseInLocation(dateLayout, q.DateFrom, s.settings.Location)
		if err != nil {
			return filter, apperror.NewBadRequestError("date_from must be YYYY-MM-DD")
		}
		filter.From = &from
	}
	if q.DateTo != "" {
		to, err := time.ParseInLocation(dateLayout, q.DateTo, s.settings.Location)
		if err != nil {
			return filter, apperror.NewBadRequestError("date_to must be YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return filter, apperror.NewBadRequestError("date_from must not be after date_to")
	}
	return filter, nil
}

// TrendPoint is the stock position at the end of one day
type TrendPoint struct {
	Date     string          `json:"date"`
	OnHand   decimal.Decimal `json:"on_hand"`
	Reserved decimal.Decimal `json:"reserved"`
}

// StockTrend returns the end-of-day on-hand quantity of sku for the last
// days days, oldest first. Past balances are derived from the current level
// by backing out the net moves booked after each day.
func (s *StockService) StockTrend(ctx context.Context, sku string, days int) ([]TrendPoint, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, apperror.NewBadRequestError("sku required")
	}
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > MaxTrendDays {
		days = MaxTrendDays
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	levels, err := s.stockRepo.GetLevelsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	onHand, reserved := decimal.Zero, decimal.Zero
	for _, l := range levels {
		onHand = onHand.Add(l.OnHand)
		reserved = reserved.Add(l.Reserved)
	}

	today := s.settings.today()
	// moves on the first day shown do not affect that day's closing balance
	since := today.AddDate(0, 0, -(days - 2))
	nets, err := s.stockRepo.DailyNetSince(ctx, sku, since, s.settings.Location)
	if err != nil {
		return nil, err
	}
	netByDay := make(map[string]decimal.Decimal, len(nets))
	for _, n := range nets {
		netByDay[n.Day.Format(dateLayout)] = n.Net
	}

	points := make([]TrendPoint, days)
	balance := onHand
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, i-(days-1))
		key := day.Format(dateLayout)
		points[i] = TrendPoint{Date: key, OnHand: balance, Reserved: reserved}
		balance = balance.Sub(netByDay[key])
	}
	return points, nil
}

// StockBalance returns the on-hand position of every SKU per warehouse
func (s *StockService) StockBalance(ctx context.Context) ([]repository.StockLevelRow, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	levels, err := s.stockRepo.ListLevels(ctx)
	if err != nil {
		return nil, err
	}
	if levels == nil {
		levels = []repository.StockLevelRow{}
	}
	return levels, nil
}

// Valuation methods accepted by StockValuation.
const (
	ValuationFIFO = "fifo"
	ValuationAvg  = "avg"
)

// ParseValuationMethod normalizes a valuation method name. Empty means FIFO
// and moving_avg is an alias of avg.
func ParseValuationMethod(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ValuationFIFO:
		return ValuationFIFO, nil
	case ValuationAvg, "moving_avg":
		return ValuationAvg, nil
	}
	return "", apperror.NewBadRequestError("method must be fifo, avg or moving_avg")
}

// StockValuationRow is the value of the stock held for one SKU in one warehouse
type StockValuationRow struct {
	SKU        string          `json:"sku"`
	Warehouse  string          `json:"wh"`
	OnHand     decimal.Decimal `json:"on_hand"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	StockValue decimal.Decimal `json:"stock_value"`
}

// StockValuationReport is the valuation of all stock under one method
type StockValuationReport struct {
	Method string              `json:"method"`
	Rows   []StockValuationRow `json:"rows"`
	Total  decimal.Decimal     `json:"total"`
}

// StockValuation values the stock on hand. Under avg every unit carries the
// level's moving average cost. Under fifo the units on hand are the ones
// received last, so they are priced from the newest inbound moves backwards;
// inbound moves without a cost fall back to the average.
func (s *StockService) StockValuation(ctx context.Context, method string) (*StockValuationReport, error) {
	method, err := ParseValuationMethod(method)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	levels, err := s.stockRepo.ListLevels(ctx)
	if err != nil {
		return nil, err
	}

	layers := map[string][]repository.InboundLayer{}
	if method == ValuationFIFO {
		inbound, err := s.stockRepo.ListInboundLayers(ctx)
		if err != nil {
			return nil, err
		}
		for _, l := range inbound {
			key := l.SKU + "|" + l.WarehouseCode
			layers[key] = append(layers[key], l)
		}
	}

	report := &StockValuationReport{
		Method: method,
		Rows:   make([]StockValuationRow, 0, len(levels)),
		Total:  decimal.Zero,
	}
	for _, lvl := range levels {
		row := StockValuationRow{
			SKU:        lvl.SKU,
			Warehouse:  lvl.WarehouseCode,
			OnHand:     lvl.OnHand,
			UnitCost:   lvl.AvgCost,
			StockValue: decimal.Zero,
		}
		if lvl.OnHand.IsPositive() {
			value := lvl.OnHand.Mul(lvl.AvgCost)
			if method == ValuationFIFO {
				value = fifoValue(lvl, layers[lvl.SKU+"|"+lvl.WarehouseCode])
				row.UnitCost = value.Div(lvl.OnHand).Round(4)
			}
			row.StockValue = value.Round(2)
		}
		report.Rows = append(report.Rows, row)
		report.Total = report.Total.Add(row.StockValue)
	}
	return report, nil
}

// fifoValue prices the on-hand quantity of lvl from layers, newest first.
func fifoValue(lvl repository.StockLevelRow, layers []repository.InboundLayer) decimal.Decimal {
	remaining := lvl.OnHand
	value := decimal.Zero
	for _, layer := range layers {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, layer.Qty)
		cost := layer.UnitCost
		if cost.IsZero() {
			cost = lvl.AvgCost
		}
		value = value.Add(take.Mul(cost))
		remaining = remaining.Sub(take)
	}
	if remaining.IsPositive() {
		value = value.Add(remaining.Mul(lvl.AvgCost))
	}
	return value
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
