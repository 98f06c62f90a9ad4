package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInvoiceType(t *testing.T) {
	typ, ok := ParseInvoiceType("")
	assert.True(t, ok)
	assert.Equal(t, InvoiceTypeDomestic, typ)
	assert.Equal(t, "D", typ.Code())

	typ, ok = ParseInvoiceType(" Foreign ")
	assert.True(t, ok)
	assert.Equal(t, "F", typ.Code())

	_, ok = ParseInvoiceType("export")
	assert.False(t, ok)
}

func TestStatuses(t *testing.T) {
	assert.True(t, OrderStatusDraft.IsValid())
	assert.False(t, OrderStatus("cancelled").IsValid())
	assert.True(t, UserStatusDisabled.IsValid())
	assert.False(t, UserStatus("locked").IsValid())
	assert.True(t, PurchaseStatusReceived.IsValid())
	assert.False(t, PurchaseStatus("cancelled").IsValid())
	assert.Equal(t, int64(-1), MoveTypeOut.Sign())
	assert.Equal(t, int64(1), MoveTypeIn.Sign())
}
