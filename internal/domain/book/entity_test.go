package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAttrs() Attributes {
	return Attributes{
		Title:  "The Go Programming Language",
		Author: "Alan Donovan",
		Price:  decimal.RequireFromString("12.99"),
	}
}

func TestNewBook(t *testing.T) {
	t.Run("规整书名与作者", func(t *testing.T) {
		attrs := validAttrs()
		attrs.Title = "  Go  "
		attrs.Author = " Rob "
		b, err := NewBook(attrs, 5)
		require.NoError(t, err)
		assert.Equal(t, "Go", b.Title)
		assert.Equal(t, "Rob", b.Author)
		assert.Equal(t, 5, b.Quantity)
		assert.False(t, b.HasCategory())
		assert.False(t, b.CreatedAt.IsZero())
	})

	tests := []struct {
		name     string
		mutate   func(*Attributes)
		quantity int
		wantErr  error
	}{
		{"空书名", func(a *Attributes) { a.Title = "   " }, 1, ErrEmptyTitle},
		{"空作者", func(a *Attributes) { a.Author = "" }, 1, ErrEmptyAuthor},
		{"价格为0", func(a *Attributes) { a.Price = decimal.Zero }, 1, ErrInvalidPrice},
		{"负价格", func(a *Attributes) { a.Price = decimal.RequireFromString("-1") }, 1, ErrInvalidPrice},
		{"三位小数", func(a *Attributes) { a.Price = decimal.RequireFromString("1.999") }, 1, ErrInvalidPrice},
		{"负库存", func(a *Attributes) {}, -1, ErrInvalidStock},
		{"ISBN位数不对", func(a *Attributes) { isbn := "12345"; a.ISBN = &isbn }, 1, ErrInvalidISBN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := validAttrs()
			tt.mutate(&attrs)
			_, err := NewBook(attrs, tt.quantity)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewBook_ISBN(t *testing.T) {
	t.Run("带连字符的ISBN-13", func(t *testing.T) {
		attrs := validAttrs()
		isbn := " 978-7-115-42802-8 "
		attrs.ISBN = &isbn
		b, err := NewBook(attrs, 0)
		require.NoError(t, err)
		require.NotNil(t, b.ISBN)
		assert.Equal(t, "978-7-115-42802-8", *b.ISBN)
	})

	t.Run("空白ISBN视为未填写", func(t *testing.T) {
		attrs := validAttrs()
		isbn := "  "
		attrs.ISBN = &isbn
		b, err := NewBook(attrs, 0)
		require.NoError(t, err)
		assert.Nil(t, b.ISBN)
	})
}

func TestBook_Apply(t *testing.T) {
	b, err := NewBook(validAttrs(), 7)
	require.NoError(t, err)

	attrs := validAttrs()
	attrs.Title = "Concurrency in Go"
	attrs.Price = decimal.RequireFromString("39.9")
	require.NoError(t, b.Apply(attrs))

	assert.Equal(t, "Concurrency in Go", b.Title)
	assert.True(t, b.Price.Equal(decimal.RequireFromString("39.90")))
	assert.Equal(t, 7, b.Quantity, "编辑图书不修改库存")

	attrs.Author = ""
	assert.ErrorIs(t, b.Apply(attrs), ErrEmptyAuthor)
	assert.Equal(t, "Concurrency in Go", b.Title, "校验失败时不修改实体")
}

func TestBook_Stock(t *testing.T) {
	b := &Book{Quantity: 3}
	assert.True(t, b.CanSupply(3))
	assert.False(t, b.CanSupply(4))
	assert.False(t, b.CanSupply(0))
	assert.True(t, b.IsLowStock(5))
	assert.False(t, b.IsLowStock(3))
}

func TestListParams_Normalize(t *testing.T) {
	p := ListParams{}.Normalize(20)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = ListParams{Page: 3, PageSize: 10}.Normalize(20)
	assert.Equal(t, 20, p.Offset())
}
