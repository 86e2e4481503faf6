// Package dashboard 首页统计
package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BookCounter 图书统计
type BookCounter interface {
	Count(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

// CategoryCounter 分类统计
type CategoryCounter interface {
	Count(ctx context.Context) (int64, error)
}

// RevenueReader 销售额统计
type RevenueReader interface {
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}

// Summary 首页统计数据
type Summary struct {
	TotalBooks        int64  `json:"total_books"`
	TotalCategories   int64  `json:"total_categories"`
	TotalRevenue      string `json:"total_revenue"` // 两位小数
	LowStockBooks     int64  `json:"low_stock_books"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// SummaryUseCase 首页统计用例
// 四个统计互不依赖,用errgroup并发查询,任一失败整体失败
type SummaryUseCase struct {
	books      BookCounter
	categories CategoryCounter
	revenue    RevenueReader
	threshold  int
}

// NewSummaryUseCase 创建统计用例
func NewSummaryUseCase(books BookCounter, categories CategoryCounter, revenue RevenueReader, lowStockThreshold int) *SummaryUseCase {
	return &SummaryUseCase{
		books:      books,
		categories: categories,
		revenue:    revenue,
		threshold:  lowStockThreshold,
	}
}

// Execute 查询统计数据
func (uc *SummaryUseCase) Execute(ctx context.Context) (*Summary, error) {
	s := &Summary{LowStockThreshold: uc.threshold}
	var revenue decimal.Decimal

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.TotalBooks, err = uc.books.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		s.TotalCategories, err = uc.categories.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		revenue, err = uc.revenue.TotalRevenue(ctx)
		return err
	})
	g.Go(func() (err error) {
		s.LowStockBooks, err = uc.books.CountLowStock(ctx, uc.threshold)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.TotalRevenue = revenue.StringFixed(2)
	return s, nil
}
