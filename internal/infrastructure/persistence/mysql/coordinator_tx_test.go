package mysql

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apppurchase "github.com/xiebiao/bookstore-inventory/internal/application/purchase"
	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
)

var errAfterInsert = errors.New("ledger ack lost")

// insertThenFailLedger 在事务内真正插入购买记录,然后返回错误
// 回滚必须同时撤销库存扣减和这条记录
type insertThenFailLedger struct {
	purchase.Ledger
	inserted uint
}

func (l *insertThenFailLedger) Append(ctx context.Context, p *purchase.Purchase) (uint, error) {
	id, err := l.Ledger.Append(ctx, p)
	if err != nil {
		return 0, err
	}
	l.inserted = id
	return 0, errAfterInsert
}

func countPurchases(t *testing.T, db *gorm.DB, bookID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&PurchaseModel{}).Where("book_id = ?", bookID).Count(&n).Error)
	return n
}

func TestCoordinator_RealTransaction(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	books := NewBookRepository(db)
	ledger := NewPurchaseRepository(db)
	tx := NewTxManager(db)
	quiet := slog.New(slog.DiscardHandler)
	b := createTestBook(t, books, 5)
	t.Cleanup(func() {
		db.Where("book_id = ?", b.ID).Delete(&PurchaseModel{})
	})

	t.Run("写入失败时扣减和记录一起回滚", func(t *testing.T) {
		failing := &insertThenFailLedger{Ledger: ledger}
		c := apppurchase.NewCoordinator(books, failing,
			apppurchase.WithLogger(quiet), apppurchase.WithTransactor(tx))
		require.Equal(t, "transaction", c.Strategy())

		result, err := c.Purchase(ctx, b.ID, 3, 7)
		require.NoError(t, err)
		assert.Equal(t, apppurchase.OutcomeLedgerFailure, result.Outcome)
		assert.ErrorIs(t, result.Cause, errAfterInsert)
		require.NotZero(t, failing.inserted, "记录确实在事务内插入过")

		found, err := books.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, found.Quantity, "库存扣减已回滚")
		assert.Zero(t, countPurchases(t, db, b.ID), "购买记录已回滚")

		_, err = ledger.FindByID(ctx, failing.inserted)
		assert.ErrorIs(t, err, purchase.ErrPurchaseNotFound)
	})

	t.Run("提交成功", func(t *testing.T) {
		c := apppurchase.NewCoordinator(books, ledger,
			apppurchase.WithLogger(quiet), apppurchase.WithTransactor(tx))

		result, err := c.Purchase(ctx, b.ID, 2, 7)
		require.NoError(t, err)
		require.Equal(t, apppurchase.OutcomeSuccess, result.Outcome)

		found, err := books.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, found.Quantity)

		record, err := ledger.FindByID(ctx, result.PurchaseID)
		require.NoError(t, err)
		assert.Equal(t, uint(7), record.UserID)
		assert.Equal(t, "79.80", record.TotalPrice.StringFixed(2))
		assert.Equal(t, int64(1), countPurchases(t, db, b.ID))
	})

	t.Run("库存不足", func(t *testing.T) {
		c := apppurchase.NewCoordinator(books, ledger,
			apppurchase.WithLogger(quiet), apppurchase.WithTransactor(tx))

		result, err := c.Purchase(ctx, b.ID, 4, 7)
		require.NoError(t, err)
		assert.Equal(t, apppurchase.OutcomeInsufficientStock, result.Outcome)
		assert.Equal(t, int64(1), countPurchases(t, db, b.ID))
	})
}
