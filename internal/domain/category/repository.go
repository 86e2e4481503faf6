package category

import (
	"context"
)

// Repository 分类仓储接口
type Repository interface {
	// Create 创建分类,重名返回ErrNameDuplicate
	Create(ctx context.Context, c *Category) error

	// FindByID 根据ID查找分类
	FindByID(ctx context.Context, id uint) (*Category, error)

	// Update 更新分类名
	Update(ctx context.Context, c *Category) error

	// Delete 删除分类
	// 同一事务内把该分类下图书的category_id置为NULL(ON DELETE SET NULL语义)
	Delete(ctx context.Context, id uint) error

	// List 查询全部分类(按名称排序)
	List(ctx context.Context) ([]*Category, error)

	// Count 分类总数
	Count(ctx context.Context) (int64, error)
}
