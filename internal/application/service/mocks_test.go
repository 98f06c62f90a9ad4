package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ============================================================================
// TRANSACTOR
// ============================================================================

type txMarker struct{}

type mockTransactor struct {
	calls int
	err   error
}

func (m *mockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(context.WithValue(ctx, txMarker{}, true))
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txMarker{}).(bool)
	return v
}

// ============================================================================
// NUMBERING
// ============================================================================

type mockSequenceRepo struct {
	mu        sync.Mutex
	counters  map[string]int64
	err       error
	outsideTx int
}

func newMockSequenceRepo() *mockSequenceRepo {
	return &mockSequenceRepo{counters: make(map[string]int64)}
}

func (m *mockSequenceRepo) Next(ctx context.Context, scope, period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if !inTx(ctx) {
		m.outsideTx++
	}
	key := scope + "|" + period
	m.counters[key]++
	return m.counters[key], nil
}

// ============================================================================
// REFERENCE DATA
// ============================================================================

type mockTeamRepo struct {
	teams map[uuid.UUID]*entity.Team
}

func newMockTeamRepo(teams ...*entity.Team) *mockTeamRepo {
	m := &mockTeamRepo{teams: make(map[uuid.UUID]*entity.Team)}
	for _, t := range teams {
		m.teams[t.ID] = t
	}
	return m
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Team, error) {
	return m.teams[id], nil
}

func (m *mockTeamRepo) List(ctx context.Context) ([]entity.Team, error) {
	out := make([]entity.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type mockCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
	createErr error
}

func newMockCustomerRepo(customers ...*entity.Customer) *mockCustomerRepo {
	m := &mockCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
	for _, c := range customers {
		m.customers[c.ID] = c
	}
	return m
}

func (m *mockCustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if m.createErr != nil {
		return m.createErr
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.customers[c.ID] = c
	return nil
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return m.customers[id], nil
}

func (m *mockCustomerRepo) List(ctx context.Context, search string, limit int) ([]entity.Customer, error) {
	var out []entity.Customer
	s := strings.ToLower(search)
	for _, c := range m.customers {
		if s == "" || strings.Contains(strings.ToLower(c.Code), s) || strings.Contains(strings.ToLower(c.Name), s) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockProductRepo struct {
	products map[uuid.UUID]*entity.Product
	lastList *repository.ProductFilterParams
}

func newMockProductRepo(products ...*entity.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return m.products[id], nil
}

func (m *mockProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	for _, p := range m.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockProductRepo) Upsert(ctx context.Context, product *entity.Product) error {
	if existing, _ := m.GetBySKU(ctx, product.SKU); existing != nil {
		product.ID = existing.ID
	} else if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *mockProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	m.lastList = params
	var out []entity.Product
	for _, p := range m.products {
		if p.TeamID != nil && *p.TeamID == params.TeamID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

// ============================================================================
// SALE ORDERS AND INVOICES
// ============================================================================

type mockOrderRepo struct {
	orders    map[uuid.UUID]*entity.SaleOrder
	createErr error
	billErr   error
	locked    []uuid.UUID
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*entity.SaleOrder)}
}

func (m *mockOrderRepo) Create(ctx context.Context, order *entity.SaleOrder) error {
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].SaleOrderID = order.ID
	}
	stored := copyOrder(order)
	m.orders[order.ID] = stored
	return nil
}

func (m *mockOrderRepo) put(order *entity.SaleOrder) {
	m.orders[order.ID] = copyOrder(order)
}

func copyOrder(o *entity.SaleOrder) *entity.SaleOrder {
	c := *o
	c.Items = append([]entity.SaleOrderItem(nil), o.Items...)
	return &c
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleOrder, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (m *mockOrderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.SaleOrder, error) {
	m.locked = append(m.locked, id)
	return m.GetByID(ctx, id)
}

func (m *mockOrderRepo) ConfirmDraft(ctx context.Context, id uuid.UUID) (bool, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != enum.OrderStatusDraft {
		return false, nil
	}
	o.Status = enum.OrderStatusConfirmed
	return true, nil
}

func (m *mockOrderRepo) AddBilledQty(ctx context.Context, itemID uuid.UUID, qty decimal.Decimal) (bool, error) {
	if m.billErr != nil {
		return false, m.billErr
	}
	for _, o := range m.orders {
		for i := range o.Items {
			it := &o.Items[i]
			if it.ID != itemID {
				continue
			}
			if it.BilledQty.Add(qty).GreaterThan(it.Qty) {
				return false, nil
			}
			it.BilledQty = it.BilledQty.Add(qty)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOrderRepo) List(ctx context.Context, params *repository.SaleOrderFilterParams) ([]entity.SaleOrder, int64, error) {
	var out []entity.SaleOrder
	for _, o := range m.orders {
		if params.Status == "" || o.Status == params.Status {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) CountByStatus(ctx context.Context, status enum.OrderStatus) (int64, error) {
	var n int64
	for _, o := range m.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

type mockInvoiceRepo struct {
	invoices map[uuid.UUID]*entity.Invoice
	lastList *repository.InvoiceFilterParams
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{invoices: make(map[uuid.UUID]*entity.Invoice)}
}

func (m *mockInvoiceRepo) Create(ctx context.Context, iv *entity.Invoice) error {
	iv.ID = uuid.New()
	for i := range iv.Items {
		iv.Items[i].ID = uuid.New()
		iv.Items[i].InvoiceID = iv.ID
	}
	m.invoices[iv.ID] = iv
	return nil
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return m.invoices[id], nil
}

func (m *mockInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	m.lastList = params
	var out []entity.Invoice
	for _, iv := range m.invoices {
		if params.Status != "" && iv.Status != params.Status {
			continue
		}
		if params.SaleOrderID != nil && iv.SaleOrderID != *params.SaleOrderID {
			continue
		}
		out = append(out, *iv)
	}
	return out, int64(len(out)), nil
}

func (m *mockInvoiceRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	for _, iv := range m.invoices {
		if iv.Status == status {
			n++
		}
	}
	return n, nil
}

// ============================================================================
// STOCK LEDGER
// ============================================================================

type levelKey struct {
	item, wh uuid.UUID
}

type mockStockRepo struct {
	products   *mockProductRepo
	mappings   map[uuid.UUID]*repository.StockMapping // by product ID
	whID       uuid.UUID
	levels     map[levelKey]*entity.StockLevel
	moves      []entity.StockMove
	dailyNets  []repository.DailyNet
	ensureCall int
	lastFilter repository.StockCardFilter
	lastSince  time.Time
}

func newMockStockRepo(products *mockProductRepo) *mockStockRepo {
	return &mockStockRepo{
		products: products,
		mappings: make(map[uuid.UUID]*repository.StockMapping),
		whID:     uuid.New(),
		levels:   make(map[levelKey]*entity.StockLevel),
	}
}

func (m *mockStockRepo) EnsureMapping(ctx context.Context, product *entity.Product, warehouseCode, costingMethod string) error {
	m.ensureCall++
	if _, ok := m.mappings[product.ID]; ok {
		return nil
	}
	m.mappings[product.ID] = &repository.StockMapping{
		ProductID:     product.ID,
		ItemID:        uuid.New(),
		WarehouseID:   m.whID,
		CostingMethod: costingMethod,
	}
	return nil
}

func (m *mockStockRepo) GetMappingBySKU(ctx context.Context, sku string) (*repository.StockMapping, error) {
	p, _ := m.products.GetBySKU(ctx, sku)
	if p == nil {
		return nil, nil
	}
	return m.mappings[p.ID], nil
}

func (m *mockStockRepo) CreateMove(ctx context.Context, move *entity.StockMove) error {
	move.ID = uuid.New()
	if move.CreatedAt.IsZero() {
		move.CreatedAt = time.Now()
	}
	m.moves = append(m.moves, *move)
	return nil
}

func (m *mockStockRepo) IncreaseLevel(ctx context.Context, itemID, warehouseID uuid.UUID, qty, unitCost decimal.Decimal) error {
	k := levelKey{itemID, warehouseID}
	lvl, ok := m.levels[k]
	if !ok {
		m.levels[k] = &entity.StockLevel{ItemID: itemID, WarehouseID: warehouseID, OnHand: qty, AvgCost: unitCost}
		return nil
	}
	switch {
	case unitCost.IsZero():
	case !lvl.OnHand.IsPositive():
		lvl.AvgCost = unitCost
	default:
		lvl.AvgCost = lvl.OnHand.Mul(lvl.AvgCost).Add(qty.Mul(unitCost)).Div(lvl.OnHand.Add(qty)).Round(4)
	}
	lvl.OnHand = lvl.OnHand.Add(qty)
	return nil
}

func (m *mockStockRepo) DecreaseLevel(ctx context.Context, itemID, warehouseID uuid.UUID, qty decimal.Decimal) (bool, error) {
	lvl, ok := m.levels[levelKey{itemID, warehouseID}]
	if !ok || lvl.OnHand.LessThan(qty) {
		return false, nil
	}
	lvl.OnHand = lvl.OnHand.Sub(qty)
	return true, nil
}

func (m *mockStockRepo) GetLevelsBySKU(ctx context.Context, sku string) ([]repository.StockLevelRow, error) {
	mp, _ := m.GetMappingBySKU(ctx, sku)
	if mp == nil {
		return nil, nil
	}
	var out []repository.StockLevelRow
	for k, lvl := range m.levels {
		if k.item == mp.ItemID {
			out = append(out, repository.StockLevelRow{
				SKU: sku, WarehouseCode: entity.DefaultWarehouseCode,
				OnHand: lvl.OnHand, Reserved: lvl.Reserved, AvgCost: lvl.AvgCost,
			})
		}
	}
	return out, nil
}

func (m *mockStockRepo) skuOf(itemID uuid.UUID) string {
	for productID, mp := range m.mappings {
		if mp.ItemID == itemID {
			return m.products.products[productID].SKU
		}
	}
	return ""
}

func (m *mockStockRepo) ListLevels(ctx context.Context) ([]repository.StockLevelRow, error) {
	var out []repository.StockLevelRow
	for k, lvl := range m.levels {
		out = append(out, repository.StockLevelRow{
			SKU: m.skuOf(k.item), WarehouseCode: entity.DefaultWarehouseCode,
			OnHand: lvl.OnHand, Reserved: lvl.Reserved, AvgCost: lvl.AvgCost,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (m *mockStockRepo) ListInboundLayers(ctx context.Context) ([]repository.InboundLayer, error) {
	var out []repository.InboundLayer
	for i := len(m.moves) - 1; i >= 0; i-- {
		mv := m.moves[i]
		if mv.MoveType != enum.MoveTypeIn {
			continue
		}
		out = append(out, repository.InboundLayer{
			SKU: m.skuOf(mv.ItemID), WarehouseCode: entity.DefaultWarehouseCode,
			Qty: mv.Qty, UnitCost: mv.UnitCost, CreatedAt: mv.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (m *mockStockRepo) ListMoves(ctx context.Context, filter repository.StockCardFilter) ([]repository.StockCardMove, error) {
	m.lastFilter = filter
	var out []repository.StockCardMove
	for _, mv := range m.moves {
		if filter.From != nil && mv.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !mv.CreatedAt.Before(*filter.To) {
			continue
		}
		out = append(out, repository.StockCardMove{StockMove: mv, WarehouseCode: entity.DefaultWarehouseCode})
	}
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *mockStockRepo) BalanceBefore(ctx context.Context, sku, warehouseCode string, t time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, mv := range m.moves {
		if mv.CreatedAt.Before(t) {
			total = total.Add(mv.SignedQty())
		}
	}
	return total, nil
}

func (m *mockStockRepo) DailyNetSince(ctx context.Context, sku string, since time.Time, loc *time.Location) ([]repository.DailyNet, error) {
	m.lastSince = since
	return m.dailyNets, nil
}

func (m *mockStockRepo) CountSKUsInStock(ctx context.Context) (int64, error) {
	items := make(map[uuid.UUID]bool)
	for k, lvl := range m.levels {
		if lvl.OnHand.IsPositive() {
			items[k.item] = true
		}
	}
	return int64(len(items)), nil
}

// ============================================================================
// PURCHASING
// ============================================================================

type mockPurchaseRepo struct {
	orders     map[uuid.UUID]*entity.PurchaseOrder
	createErr  error
	lastFilter *repository.PurchaseOrderFilterParams
}

func newMockPurchaseRepo() *mockPurchaseRepo {
	return &mockPurchaseRepo{orders: make(map[uuid.UUID]*entity.PurchaseOrder)}
}

func (m *mockPurchaseRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	if m.createErr != nil {
		return m.createErr
	}
	po.ID = uuid.New()
	for i := range po.Items {
		po.Items[i].ID = uuid.New()
		po.Items[i].PurchaseOrderID = po.ID
	}
	stored := *po
	stored.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	m.orders[po.ID] = &stored
	return nil
}

func (m *mockPurchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	po, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *po
	cp.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	return &cp, nil
}

func (m *mockPurchaseRepo) MarkReceived(ctx context.Context, id uuid.UUID) (bool, error) {
	po, ok := m.orders[id]
	if !ok || po.Status != enum.PurchaseStatusOrdered {
		return false, nil
	}
	now := time.Now()
	po.Status = enum.PurchaseStatusReceived
	po.ReceivedAt = &now
	return true, nil
}

func (m *mockPurchaseRepo) List(ctx context.Context, params *repository.PurchaseOrderFilterParams) ([]entity.PurchaseOrder, int64, error) {
	m.lastFilter = params
	var out []entity.PurchaseOrder
	for _, po := range m.orders {
		if params.Status != "" && po.Status != params.Status {
			continue
		}
		out = append(out, *po)
	}
	return out, int64(len(out)), nil
}

// ============================================================================
// USERS
// ============================================================================

type mockUserRepo struct {
	users     map[uuid.UUID]*entity.User
	createErr error
	updateErr error
	replaced  map[uuid.UUID][]uint
	roles     *mockRoleRepo
}

func newMockUserRepo(roles *mockRoleRepo) *mockUserRepo {
	return &mockUserRepo{
		users:    make(map[uuid.UUID]*entity.User),
		replaced: make(map[uuid.UUID][]uint),
		roles:    roles,
	}
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	c := *u
	m.users[u.ID] = &c
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	if v, ok := fields["status"].(enum.UserStatus); ok {
		u.Status = v
	}
	if v, ok := fields["password_hash"].(string); ok {
		u.PasswordHash = v
	}
	return true, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

func (m *mockUserRepo) List(ctx context.Context, search string) ([]entity.User, error) {
	var out []entity.User
	for _, u := range m.users {
		if search == "" || strings.Contains(u.Username, search) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *mockUserRepo) ReplaceRoles(ctx context.Context, userID uuid.UUID, roleIDs []uint) error {
	m.replaced[userID] = roleIDs
	u := m.users[userID]
	u.Roles = nil
	for _, id := range roleIDs {
		for _, r := range m.roles.roles {
			if r.ID == id {
				u.Roles = append(u.Roles, r)
			}
		}
	}
	return nil
}

type mockRoleRepo struct {
	roles []entity.Role
}

func newMockRoleRepo() *mockRoleRepo {
	var roles []entity.Role
	names := []string{enum.RoleAdmin, enum.RoleStaff, enum.RoleViewer}
	for i, n := range names {
		role := entity.Role{ID: uint(i + 1), Name: n}
		for _, p := range enum.RolePermissions[n] {
			role.Permissions = append(role.Permissions, entity.Permission{Name: p})
		}
		roles = append(roles, role)
	}
	return &mockRoleRepo{roles: roles}
}

func (m *mockRoleRepo) GetByNames(ctx context.Context, names []string) ([]entity.Role, error) {
	var out []entity.Role
	for _, r := range m.roles {
		for _, n := range names {
			if r.Name == n {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (m *mockRoleRepo) List(ctx context.Context) ([]entity.Role, error) {
	return m.roles, nil
}

func (m *mockRoleRepo) byName(name string) entity.Role {
	for _, r := range m.roles {
		if r.Name == name {
			return r
		}
	}
	return entity.Role{}
}
