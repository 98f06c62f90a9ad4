package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSaleOrderItem_Outstanding(t *testing.T) {
	item := SaleOrderItem{Qty: decimal.NewFromInt(5), BilledQty: decimal.NewFromInt(2)}
	assert.True(t, item.Outstanding().Equal(decimal.NewFromInt(3)))

	over := SaleOrderItem{Qty: decimal.NewFromInt(1), BilledQty: decimal.NewFromInt(2)}
	assert.True(t, over.Outstanding().IsZero())
}

func TestStockMove_Direction(t *testing.T) {
	wh := uuid.New()
	in := StockMove{MoveType: enum.MoveTypeIn, WhTo: &wh, Qty: decimal.NewFromInt(4)}
	out := StockMove{MoveType: enum.MoveTypeOut, WhFrom: &wh, Qty: decimal.NewFromInt(3)}

	assert.Equal(t, wh, in.WarehouseID())
	assert.Equal(t, wh, out.WarehouseID())
	assert.True(t, in.SignedQty().Equal(decimal.NewFromInt(4)))
	assert.True(t, out.SignedQty().Equal(decimal.NewFromInt(-3)))
}

func TestUser_GetPermissionsDeduplicates(t *testing.T) {
	u := User{Roles: []Role{
		{Name: "staff", Permissions: []Permission{{Name: "so:view"}, {Name: "so:create"}}},
		{Name: "viewer", Permissions: []Permission{{Name: "so:view"}, {Name: "dash:view"}}},
	}}
	assert.Equal(t, []string{"dash:view", "so:create", "so:view"}, u.GetPermissions())
	assert.Equal(t, []string{"staff", "viewer"}, u.RoleNames())
}
