package book

import (
	"context"

	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
)

// EditBookUseCase 图书维护用例(详情、编辑、删除、补货)
// 教学要点:
// 1. 编辑不修改库存,库存只能通过购买和补货变化
// 2. 删除是软删除,历史购买记录保留书名、价格快照
type EditBookUseCase struct {
	bookService book.Service
	categories  category.Repository
}

// NewEditBookUseCase 创建图书维护用例
func NewEditBookUseCase(bookService book.Service, categories category.Repository) *EditBookUseCase {
	return &EditBookUseCase{
		bookService: bookService,
		categories:  categories,
	}
}

// Get 图书详情
func (uc *EditBookUseCase) Get(ctx context.Context, id uint) (*BookDetail, error) {
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookDetail(b), nil
}

// Update 编辑图书信息
func (uc *EditBookUseCase) Update(ctx context.Context, id uint, in BookInput) (*BookDetail, error) {
	if err := ensureCategory(ctx, uc.categories, in.CategoryID); err != nil {
		return nil, err
	}
	b, err := uc.bookService.UpdateBook(ctx, id, in.attributes())
	if err != nil {
		return nil, err
	}
	return toBookDetail(b), nil
}

// Delete 删除图书
func (uc *EditBookUseCase) Delete(ctx context.Context, id uint) error {
	return uc.bookService.DeleteBook(ctx, id)
}

// Restock 补货
func (uc *EditBookUseCase) Restock(ctx context.Context, id uint, quantity int) (*BookDetail, error) {
	b, err := uc.bookService.Restock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	return toBookDetail(b), nil
}
