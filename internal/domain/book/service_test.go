package book_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/persistence/memory"
)

func newService() book.Service {
	return book.NewService(memory.NewCatalog(memory.NewCategories()))
}

func attrsWithISBN(isbn string) book.Attributes {
	return book.Attributes{
		Title:  "Sapiens",
		Author: "Yuval Noah Harari",
		Price:  decimal.RequireFromString("24.00"),
		ISBN:   &isbn,
	}
}

func TestService_CreateBook(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	b, err := svc.CreateBook(ctx, attrsWithISBN("9780062316097"), 3)
	require.NoError(t, err)
	assert.NotZero(t, b.ID)

	_, err = svc.CreateBook(ctx, attrsWithISBN("9780062316097"), 1)
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)
}

func TestService_UpdateBook(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	first, err := svc.CreateBook(ctx, attrsWithISBN("9780062316097"), 3)
	require.NoError(t, err)
	second, err := svc.CreateBook(ctx, attrsWithISBN("9780553380163"), 3)
	require.NoError(t, err)

	// 保留自身ISBN不算重复
	updated, err := svc.UpdateBook(ctx, first.ID, attrsWithISBN("9780062316097"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)

	_, err = svc.UpdateBook(ctx, second.ID, attrsWithISBN("9780062316097"))
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)

	_, err = svc.UpdateBook(ctx, 999, attrsWithISBN("9780000000002"))
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestService_Restock(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	b, err := svc.CreateBook(ctx, attrsWithISBN("9780062316097"), 0)
	require.NoError(t, err)

	restocked, err := svc.Restock(ctx, b.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, restocked.Quantity)

	_, err = svc.Restock(ctx, b.ID, 0)
	assert.ErrorIs(t, err, book.ErrInvalidQuantity)

	_, err = svc.Restock(ctx, 999, 1)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestService_DeleteBook(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	b, err := svc.CreateBook(ctx, attrsWithISBN("9780062316097"), 1)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBook(ctx, b.ID))

	_, err = svc.GetBook(ctx, b.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}
