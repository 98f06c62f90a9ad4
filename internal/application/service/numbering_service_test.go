package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormats(t *testing.T) {
	assert.Equal(t, "SO-HQ-250305-0001", FormatSaleOrderNumber("hq", "250305", 1))
	assert.Equal(t, "SO-EXP-250305-12345", FormatSaleOrderNumber("EXP", "250305", 12345))
	assert.Equal(t, "IVD-250305-0042", FormatInvoiceNumber(enum.InvoiceTypeDomestic, "250305", 42))
	assert.Equal(t, "IVF-250305-0007", FormatInvoiceNumber(enum.InvoiceTypeForeign, "250305", 7))
	assert.Equal(t, "SO:HQ", SaleOrderScope(" hq "))
	assert.Equal(t, "IV:F", InvoiceScope(enum.InvoiceTypeForeign))
	assert.Equal(t, "PO-HQ-250305-0003", FormatPurchaseOrderNumber("hq", "250305", 3))
	assert.Equal(t, "PO:HQ", PurchaseOrderScope("hq"))
}

func TestPeriod_UsesBusinessTimezone(t *testing.T) {
	assert.Equal(t, "250305", Period(fixedNow, bangkok))
	assert.Equal(t, "250304", Period(fixedNow, time.UTC))
}

func TestNumberingService_SequentialPerScopeAndPeriod(t *testing.T) {
	seq := newMockSequenceRepo()
	svc := NewNumberingService(seq, testSettings())
	ctx := context.Background()

	first, err := svc.NextSaleOrderNumber(ctx, "HQ", fixedNow)
	require.NoError(t, err)
	second, err := svc.NextSaleOrderNumber(ctx, "HQ", fixedNow)
	require.NoError(t, err)
	other, err := svc.NextSaleOrderNumber(ctx, "EXP", fixedNow)
	require.NoError(t, err)
	nextDay, err := svc.NextSaleOrderNumber(ctx, "HQ", fixedNow.Add(24*time.Hour))
	require.NoError(t, err)
	iv, err := svc.NextInvoiceNumber(ctx, enum.InvoiceTypeDomestic, fixedNow)
	require.NoError(t, err)
	po, err := svc.NextPurchaseOrderNumber(ctx, "HQ", fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "SO-HQ-250305-0001", first)
	assert.Equal(t, "SO-HQ-250305-0002", second)
	assert.Equal(t, "SO-EXP-250305-0001", other)
	assert.Equal(t, "SO-HQ-250306-0001", nextDay)
	assert.Equal(t, "IVD-250305-0001", iv)
	assert.Equal(t, "PO-HQ-250305-0001", po, "purchase orders count separately from sale orders")
}

func TestNumberingService_ConcurrentCallersNeverCollide(t *testing.T) {
	svc := NewNumberingService(newMockSequenceRepo(), testSettings())

	const n = 50
	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			no, err := svc.NextInvoiceNumber(context.Background(), enum.InvoiceTypeForeign, fixedNow)
			if err == nil {
				results <- no
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for no := range results {
		assert.False(t, seen[no], "duplicate number %s", no)
		seen[no] = true
	}
	assert.Len(t, seen, n)
}

func TestNumberingService_PropagatesErrors(t *testing.T) {
	seq := newMockSequenceRepo()
	seq.err = errors.New("db down")
	svc := NewNumberingService(seq, testSettings())

	_, err := svc.NextSaleOrderNumber(context.Background(), "HQ", fixedNow)
	assert.ErrorIs(t, err, seq.err)
}
