package purchase

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger 购买账本(只追加)
// 设计说明:
// 1. 只有Append一个写操作,没有更新和删除
// 2. Append成功后记录立即可读(同一主库)
// 3. ctx中携带事务时,写入在该事务内执行
type Ledger interface {
	// Append 追加一条购买记录,设置PurchasedAt并返回持久化ID
	Append(ctx context.Context, p *Purchase) (uint, error)
}

// Repository 购买记录仓储(账本 + 查询)
type Repository interface {
	Ledger

	// FindByID 根据ID查询购买记录
	FindByID(ctx context.Context, id uint) (*Purchase, error)

	// ListByUser 查询某个买家的购买记录(最新的在前)
	ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*Purchase, int64, error)

	// List 查询全部购买记录(最新的在前)
	List(ctx context.Context, page, pageSize int) ([]*Purchase, int64, error)

	// TotalRevenue 销售总额
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}
