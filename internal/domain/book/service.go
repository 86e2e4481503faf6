package book

import (
	"context"
	"errors"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装目录维护相关的业务规则校验
// 2. 库存变化只走StockStore的原子操作
type Service interface {
	// CreateBook 上架图书
	// 业务规则:
	// - 属性校验见NewBook
	// - ISBN不能重复
	CreateBook(ctx context.Context, attrs Attributes, quantity int) (*Book, error)

	// GetBook 根据ID获取图书详情
	GetBook(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 编辑图书信息(不修改库存)
	UpdateBook(ctx context.Context, id uint, attrs Attributes) (*Book, error)

	// DeleteBook 删除图书
	DeleteBook(ctx context.Context, id uint) error

	// Restock 补货(原子增加库存)
	Restock(ctx context.Context, id uint, quantity int) (*Book, error)

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 上架图书
func (s *service) CreateBook(ctx context.Context, attrs Attributes, quantity int) (*Book, error) {
	// 1. 创建实体(包含属性校验)
	b, err := NewBook(attrs, quantity)
	if err != nil {
		return nil, err
	}

	// 2. 检查ISBN是否已存在(Repository也会处理唯一索引冲突)
	if err := s.ensureISBNAvailable(ctx, b.ISBN, 0); err != nil {
		return nil, err
	}

	// 3. 持久化
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBook 编辑图书信息
func (s *service) UpdateBook(ctx context.Context, id uint, attrs Attributes) (*Book, error) {
	// 1. 查询图书
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 应用新属性
	if err := b.Apply(attrs); err != nil {
		return nil, err
	}

	// 3. ISBN变更时检查唯一性
	if err := s.ensureISBNAvailable(ctx, b.ISBN, b.ID); err != nil {
		return nil, err
	}

	// 4. 持久化
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// Restock 补货
func (s *service) Restock(ctx context.Context, id uint, quantity int) (*Book, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := s.repo.IncrementStock(ctx, id, quantity); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// ensureISBNAvailable ISBN未被其他图书占用
func (s *service) ensureISBNAvailable(ctx context.Context, isbn *string, selfID uint) error {
	if isbn == nil {
		return nil
	}
	existing, err := s.repo.FindByISBN(ctx, *isbn)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrISBNDuplicate
	}
	return nil
}
