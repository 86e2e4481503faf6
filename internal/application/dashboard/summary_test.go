package dashboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-inventory/internal/application/dashboard"
	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/persistence/memory"
)

type brokenRevenue struct{}

func (brokenRevenue) TotalRevenue(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("db down")
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	categories := memory.NewCategories()
	catalog := memory.NewCatalog(categories)
	ledger := memory.NewLedger()
	require.NoError(t, memory.Seed(ctx, catalog, categories))

	first, err := catalog.FindByID(ctx, 1)
	require.NoError(t, err)
	p, err := purchase.NewPurchase(first, 2, 7)
	require.NoError(t, err)
	_, err = ledger.Append(ctx, p)
	require.NoError(t, err)

	uc := dashboard.NewSummaryUseCase(catalog, categories, ledger, 10)
	s, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), s.TotalBooks)
	assert.Equal(t, int64(4), s.TotalCategories)
	assert.Equal(t, "25.98", s.TotalRevenue)
	// 演示数据中库存低于10的有:8、3、0
	assert.Equal(t, int64(3), s.LowStockBooks)
	assert.Equal(t, 10, s.LowStockThreshold)
}

func TestSummary_Error(t *testing.T) {
	categories := memory.NewCategories()
	uc := dashboard.NewSummaryUseCase(memory.NewCatalog(categories), categories, brokenRevenue{}, 10)

	_, err := uc.Execute(context.Background())
	assert.Error(t, err)
}
