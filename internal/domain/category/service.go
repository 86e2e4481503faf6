package category

import (
	"context"
)

// Service 分类领域服务
type Service interface {
	CreateCategory(ctx context.Context, name string) (*Category, error)
	GetCategory(ctx context.Context, id uint) (*Category, error)
	RenameCategory(ctx context.Context, id uint, name string) (*Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	ListCategories(ctx context.Context) ([]*Category, error)
}

type service struct {
	repo Repository
}

// NewService 创建分类领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	c, err := NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCategory(ctx context.Context, id uint) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) RenameCategory(ctx context.Context, id uint, name string) (*Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}
