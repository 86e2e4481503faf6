package book_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookstore-inventory/internal/application/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/persistence/memory"
)

type fixture struct {
	catalog    *memory.Catalog
	categories *memory.Categories
	publish    *appbook.PublishBookUseCase
	list       *appbook.ListBooksUseCase
	edit       *appbook.EditBookUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	categories := memory.NewCategories()
	catalog := memory.NewCatalog(categories)
	svc := book.NewService(catalog)
	return &fixture{
		catalog:    catalog,
		categories: categories,
		publish:    appbook.NewPublishBookUseCase(svc, categories),
		list:       appbook.NewListBooksUseCase(svc, categories, 20),
		edit:       appbook.NewEditBookUseCase(svc, categories),
	}
}

func (f *fixture) addCategory(t *testing.T, name string) uint {
	t.Helper()
	c, err := category.NewCategory(name)
	require.NoError(t, err)
	require.NoError(t, f.categories.Create(context.Background(), c))
	return c.ID
}

func input(title string, categoryID *uint) appbook.BookInput {
	return appbook.BookInput{
		Title:      title,
		Author:     "Donovan",
		CategoryID: categoryID,
		Price:      decimal.RequireFromString("12.99"),
	}
}

func TestPublishBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	programming := f.addCategory(t, "Programming")

	detail, err := f.publish.Execute(ctx, appbook.PublishBookRequest{BookInput: input("Go", &programming), Quantity: 50})
	require.NoError(t, err)
	assert.Equal(t, "12.99", detail.Price)
	assert.Equal(t, 50, detail.Quantity)
	require.NotNil(t, detail.CategoryID)
	assert.Equal(t, programming, *detail.CategoryID)

	missing := uint(999)
	_, err = f.publish.Execute(ctx, appbook.PublishBookRequest{BookInput: input("Go", &missing), Quantity: 1})
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)

	bad := input("Go", nil)
	bad.Price = decimal.RequireFromString("1.999")
	_, err = f.publish.Execute(ctx, appbook.PublishBookRequest{BookInput: bad, Quantity: 1})
	assert.ErrorIs(t, err, book.ErrInvalidPrice)

	_, err = f.publish.Execute(ctx, appbook.PublishBookRequest{BookInput: input("Go", nil), Quantity: -1})
	assert.ErrorIs(t, err, book.ErrInvalidStock)
}

func TestListBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	science := f.addCategory(t, "Science")

	for _, title := range []string{"Cosmos", "Dune", "Brief History"} {
		var cat *uint
		if title != "Dune" {
			cat = &science
		}
		_, err := f.publish.Execute(ctx, appbook.PublishBookRequest{BookInput: input(title, cat), Quantity: 1})
		require.NoError(t, err)
	}

	resp, err := f.list.Execute(ctx, appbook.ListBooksRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.List, 2)
	assert.Equal(t, "Science", resp.List[0].CategoryName)

	resp, err = f.list.Execute(ctx, appbook.ListBooksRequest{CategoryID: &science})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 20, resp.PageSize)

	resp, err = f.list.Execute(ctx, appbook.ListBooksRequest{Keyword: "dune"})
	require.NoError(t, err)
	require.Len(t, resp.List, 1)
	assert.Empty(t, resp.List[0].CategoryName)
}

func TestEditBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.publish.Execute(ctx, appbook.PublishBookRequest{BookInput: input("Go", nil), Quantity: 10})
	require.NoError(t, err)

	// 编辑期间的并发购买不会被覆盖
	require.NoError(t, f.catalog.DecrementStockIfAvailable(ctx, created.ID, 4))

	changed := input("Go, 2nd edition", nil)
	changed.Price = decimal.RequireFromString("15.50")
	updated, err := f.edit.Update(ctx, created.ID, changed)
	require.NoError(t, err)
	assert.Equal(t, "Go, 2nd edition", updated.Title)
	assert.Equal(t, "15.50", updated.Price)

	got, err := f.edit.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)

	restocked, err := f.edit.Restock(ctx, created.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 10, restocked.Quantity)

	_, err = f.edit.Restock(ctx, created.ID, 0)
	assert.ErrorIs(t, err, book.ErrInvalidQuantity)

	require.NoError(t, f.edit.Delete(ctx, created.ID))
	_, err = f.edit.Get(ctx, created.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}
