package purchase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppurchase "github.com/xiebiao/bookstore-inventory/internal/application/purchase"
	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/persistence/memory"
)

func TestQueryUseCase(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCatalog(nil)
	ledger := memory.NewLedger()
	addBook(t, catalog, "10.00", 100)
	c := apppurchase.NewCoordinator(catalog, ledger, apppurchase.WithLogger(quietLogger))

	var ids []uint
	for _, buyer := range []uint{7, 8, 7, 7} {
		r, err := c.Purchase(ctx, 1, 1, buyer)
		require.NoError(t, err)
		ids = append(ids, r.PurchaseID)
	}

	uc := apppurchase.NewQueryUseCase(ledger, 2)

	got, err := uc.GetPurchase(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)

	_, err = uc.GetPurchase(ctx, 0)
	assert.ErrorIs(t, err, purchase.ErrPurchaseNotFound)

	page, err := uc.ListByUser(ctx, 7, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)
	require.Len(t, page.List, 2)
	assert.Equal(t, ids[3], page.List[0].ID)

	all, err := uc.List(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Total)
	require.Len(t, all.List, 1)
	assert.Equal(t, ids[0], all.List[0].ID)
}
