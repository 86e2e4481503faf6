package purchase

import (
	"context"

	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
)

// QueryUseCase 购买记录查询用例
type QueryUseCase struct {
	repo            purchase.Repository
	defaultPageSize int
}

// NewQueryUseCase 创建查询用例
func NewQueryUseCase(repo purchase.Repository, defaultPageSize int) *QueryUseCase {
	if defaultPageSize < 1 {
		defaultPageSize = 20
	}
	return &QueryUseCase{repo: repo, defaultPageSize: defaultPageSize}
}

// Page 一页购买记录
type Page struct {
	List     []*purchase.Purchase
	Total    int64
	Page     int
	PageSize int
}

// GetPurchase 查询单条购买记录
func (uc *QueryUseCase) GetPurchase(ctx context.Context, id uint) (*purchase.Purchase, error) {
	if id == 0 {
		return nil, purchase.ErrPurchaseNotFound
	}
	return uc.repo.FindByID(ctx, id)
}

// ListByUser 查询买家的购买记录(最新的在前)
func (uc *QueryUseCase) ListByUser(ctx context.Context, userID uint, page, pageSize int) (*Page, error) {
	page, pageSize = uc.normalize(page, pageSize)
	list, total, err := uc.repo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &Page{List: list, Total: total, Page: page, PageSize: pageSize}, nil
}

// List 查询全部购买记录(最新的在前)
func (uc *QueryUseCase) List(ctx context.Context, page, pageSize int) (*Page, error) {
	page, pageSize = uc.normalize(page, pageSize)
	list, total, err := uc.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &Page{List: list, Total: total, Page: page, PageSize: pageSize}, nil
}

func (uc *QueryUseCase) normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = uc.defaultPageSize
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
