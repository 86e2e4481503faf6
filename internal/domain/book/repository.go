package book

import (
	"context"
)

// StockStore 库存存储接口(购买事务依赖的最小契约)
// 设计说明:
// 1. 库存只能通过这里的两个原子操作修改,不允许"读出-修改-写回"
// 2. DecrementStockIfAvailable是并发安全的唯一来源:同一本书的两次扣减互相串行
// 3. 实现可以参与事务:ctx中携带事务时,操作在该事务内执行
type StockStore interface {
	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// DecrementStockIfAvailable 库存充足时原子扣减
	// 返回值:
	// - nil: 扣减成功
	// - ErrInsufficientStock: 库存不足,库存未变
	// - ErrBookNotFound: 图书不存在
	// - 其他错误: 存储故障
	DecrementStockIfAvailable(ctx context.Context, id uint, quantity int) error

	// IncrementStock 无条件增加库存(补偿、补货使用)
	IncrementStock(ctx context.Context, id uint, quantity int) error
}

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于用内存实现做单元测试,不依赖具体数据库
type Repository interface {
	StockStore

	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息(不修改库存)
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除,历史购买记录不受影响)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表,支持按分类过滤和关键词搜索
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// Count 图书总数
	Count(ctx context.Context) (int64, error)

	// CountLowStock 库存低于threshold的图书数量
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	CategoryID *uint  // 分类过滤(nil表示不过滤)
	Keyword    string // 搜索关键词(标题、作者、ISBN、分类名)
}

// Normalize 规整分页参数
func (p ListParams) Normalize(defaultPageSize int) ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Offset 分页偏移量
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
