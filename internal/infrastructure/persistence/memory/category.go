package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
)

// Categories 内存分类存储
type Categories struct {
	mu       sync.Mutex
	nextID   uint
	items    map[uint]*category.Category
	onDelete func(id uint)
}

// NewCategories 创建内存分类存储
func NewCategories() *Categories {
	return &Categories{items: make(map[uint]*category.Category)}
}

func (s *Categories) Create(_ context.Context, c *category.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Name == c.Name {
			return category.ErrNameDuplicate
		}
	}
	s.nextID++
	c.ID = s.nextID
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *Categories) FindByID(_ context.Context, id uint) (*category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.items[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Categories) Update(_ context.Context, c *category.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[c.ID]
	if !ok {
		return category.ErrCategoryNotFound
	}
	for _, other := range s.items {
		if other.ID != c.ID && other.Name == c.Name {
			return category.ErrNameDuplicate
		}
	}
	existing.Name = c.Name
	existing.UpdatedAt = time.Now()
	return nil
}

// Delete 删除分类,之后把所属图书置为未分类
func (s *Categories) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	if _, ok := s.items[id]; !ok {
		s.mu.Unlock()
		return category.ErrCategoryNotFound
	}
	delete(s.items, id)
	onDelete := s.onDelete
	s.mu.Unlock()

	// 释放分类锁后再回调,Catalog.List持有目录锁时会读取分类名
	if onDelete != nil {
		onDelete(id)
	}
	return nil
}

func (s *Categories) List(_ context.Context) ([]*category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*category.Category, 0, len(s.items))
	for _, c := range s.items {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (s *Categories) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *Categories) name(id uint) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.items[id]
	if !ok {
		return "", false
	}
	return c.Name, true
}
