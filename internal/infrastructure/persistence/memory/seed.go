package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
)

// demoBook 演示图书
type demoBook struct {
	title    string
	author   string
	category string
	price    string
	quantity int
	isbn     string
}

var demoBooks = []demoBook{
	{"The Go Programming Language", "Alan A. A. Donovan", "Programming", "12.99", 50, "9780134190440"},
	{"Concurrency in Go", "Katherine Cox-Buday", "Programming", "39.90", 8, "9781491941195"},
	{"A Brief History of Time", "Stephen Hawking", "Science", "18.50", 20, "9780553380163"},
	{"Sapiens", "Yuval Noah Harari", "History", "24.00", 3, "9780062316097"},
	{"Dune", "Frank Herbert", "Fiction", "9.99", 0, "9780441172719"},
}

// Seed 写入演示分类与图书
// 只在两个存储都为空时执行
func Seed(ctx context.Context, catalog *Catalog, categories *Categories) error {
	if n, _ := catalog.Count(ctx); n > 0 {
		return nil
	}

	ids := make(map[string]uint)
	for _, name := range []string{"Fiction", "Science", "History", "Programming"} {
		c, err := category.NewCategory(name)
		if err != nil {
			return err
		}
		if err := categories.Create(ctx, c); err != nil {
			return fmt.Errorf("写入演示分类失败: %w", err)
		}
		ids[name] = c.ID
	}

	for _, d := range demoBooks {
		categoryID := ids[d.category]
		isbn := d.isbn
		b, err := book.NewBook(book.Attributes{
			Title:      d.title,
			Author:     d.author,
			CategoryID: &categoryID,
			Price:      decimal.RequireFromString(d.price),
			ISBN:       &isbn,
		}, d.quantity)
		if err != nil {
			return fmt.Errorf("演示图书%q不合法: %w", d.title, err)
		}
		if err := catalog.Create(ctx, b); err != nil {
			return fmt.Errorf("写入演示图书失败: %w", err)
		}
	}
	return nil
}
