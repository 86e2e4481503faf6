// Package memory 提供进程内存储实现
//
// 用于演示环境(database.driver=memory)和单元测试:
// - 同一个Store上的操作由一把互斥锁串行化,DecrementStockIfAvailable的"检查+扣减"是原子的
// - 没有跨记录事务,购买流程使用补偿策略
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
)

// Catalog 内存图书目录(实现book.Repository)
type Catalog struct {
	mu         sync.Mutex
	nextID     uint
	books      map[uint]*book.Book
	categories *Categories
}

// NewCatalog 创建内存图书目录
// categories用于关键词搜索分类名,可以为nil
func NewCatalog(categories *Categories) *Catalog {
	c := &Catalog{
		books:      make(map[uint]*book.Book),
		categories: categories,
	}
	if categories != nil {
		categories.onDelete = c.clearCategory
	}
	return c
}

// Create 创建图书
func (c *Catalog) Create(_ context.Context, b *book.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b.ISBN != nil && c.findByISBNLocked(*b.ISBN) != nil {
		return book.ErrISBNDuplicate
	}

	c.nextID++
	b.ID = c.nextID
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	c.books[b.ID] = cloneBook(b)
	return nil
}

// FindByID 根据ID查找图书(返回副本)
func (c *Catalog) FindByID(_ context.Context, id uint) (*book.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return cloneBook(b), nil
}

// FindByISBN 根据ISBN查找图书
func (c *Catalog) FindByISBN(_ context.Context, isbn string) (*book.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b := c.findByISBNLocked(isbn); b != nil {
		return cloneBook(b), nil
	}
	return nil, book.ErrBookNotFound
}

// Update 更新图书信息,保留当前库存
func (c *Catalog) Update(_ context.Context, b *book.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.books[b.ID]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.ISBN != nil {
		if other := c.findByISBNLocked(*b.ISBN); other != nil && other.ID != b.ID {
			return book.ErrISBNDuplicate
		}
	}

	updated := cloneBook(b)
	updated.Quantity = existing.Quantity
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	c.books[b.ID] = updated

	b.Quantity = existing.Quantity
	b.UpdatedAt = updated.UpdatedAt
	return nil
}

// Delete 删除图书
func (c *Catalog) Delete(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(c.books, id)
	return nil
}

// List 分页查询
func (c *Catalog) List(_ context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	c.mu.Lock()
	matched := make([]*book.Book, 0, len(c.books))
	keyword := strings.ToLower(strings.TrimSpace(params.Keyword))
	for _, b := range c.books {
		if params.CategoryID != nil && (b.CategoryID == nil || *b.CategoryID != *params.CategoryID) {
			continue
		}
		if keyword != "" && !c.matchesLocked(b, keyword) {
			continue
		}
		matched = append(matched, cloneBook(b))
	}
	c.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := params.Offset()
	if start >= len(matched) {
		return []*book.Book{}, total, nil
	}
	end := start + params.PageSize
	if params.PageSize <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Count 图书总数
func (c *Catalog) Count(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.books)), nil
}

// CountLowStock 低库存图书数
func (c *Catalog) CountLowStock(_ context.Context, threshold int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for _, b := range c.books {
		if b.IsLowStock(threshold) {
			n++
		}
	}
	return n, nil
}

// DecrementStockIfAvailable 在锁内完成检查与扣减
func (c *Catalog) DecrementStockIfAvailable(_ context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return book.ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.Quantity < quantity {
		return book.ErrInsufficientStock
	}
	b.Quantity -= quantity
	b.UpdatedAt = time.Now()
	return nil
}

// IncrementStock 增加库存
func (c *Catalog) IncrementStock(_ context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return book.ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Quantity += quantity
	b.UpdatedAt = time.Now()
	return nil
}

// Stock 当前库存(只读,测试与演示用)
func (c *Catalog) Stock(id uint) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.books[id]
	if !ok {
		return 0, false
	}
	return b.Quantity, true
}

func (c *Catalog) findByISBNLocked(isbn string) *book.Book {
	for _, b := range c.books {
		if b.ISBN != nil && *b.ISBN == isbn {
			return b
		}
	}
	return nil
}

func (c *Catalog) matchesLocked(b *book.Book, keyword string) bool {
	if strings.Contains(strings.ToLower(b.Title), keyword) ||
		strings.Contains(strings.ToLower(b.Author), keyword) ||
		strconv.FormatUint(uint64(b.ID), 10) == keyword {
		return true
	}
	if b.ISBN != nil && strings.Contains(strings.ToLower(*b.ISBN), keyword) {
		return true
	}
	if b.CategoryID != nil && c.categories != nil {
		if name, ok := c.categories.name(*b.CategoryID); ok {
			return strings.Contains(strings.ToLower(name), keyword)
		}
	}
	return false
}

// clearCategory 分类删除后把图书置为未分类
func (c *Catalog) clearCategory(categoryID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.books {
		if b.CategoryID != nil && *b.CategoryID == categoryID {
			b.CategoryID = nil
		}
	}
}

func cloneBook(b *book.Book) *book.Book {
	cp := *b
	if b.CategoryID != nil {
		id := *b.CategoryID
		cp.CategoryID = &id
	}
	if b.ISBN != nil {
		isbn := *b.ISBN
		cp.ISBN = &isbn
	}
	if b.PublicationDate != nil {
		d := *b.PublicationDate
		cp.PublicationDate = &d
	}
	return &cp
}

var _ book.Repository = (*Catalog)(nil)
var _ category.Repository = (*Categories)(nil)
