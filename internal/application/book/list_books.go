package book

import (
	"context"

	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持分页、按分类过滤、关键词搜索(标题、作者、ISBN、分类名)
// 2. 列表查询不返回description字段(减少数据传输量)
// 3. 分类名通过一次分类列表查询补齐,分类表很小
type ListBooksUseCase struct {
	bookService     book.Service
	categories      category.Repository
	defaultPageSize int
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, categories category.Repository, defaultPageSize int) *ListBooksUseCase {
	if defaultPageSize < 1 {
		defaultPageSize = 20
	}
	return &ListBooksUseCase{
		bookService:     bookService,
		categories:      categories,
		defaultPageSize: defaultPageSize,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	CategoryID *uint  // 分类过滤
	Keyword    string // 搜索关键词
}

// BookListItem 列表项DTO(不含description)
type BookListItem struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	CategoryID   *uint   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Price        string  `json:"price"`
	Quantity     int     `json:"quantity"`
	ISBN         *string `json:"isbn"`
	ImageURL     string  `json:"image_url"`
	CreatedAt    string  `json:"created_at"`
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 执行列表查询用例
// 学习要点:
// 1. 参数默认值与范围限制统一由ListParams.Normalize处理
// 2. 调用领域服务执行查询,再转换为DTO
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 构建查询参数
	params := book.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		CategoryID: req.CategoryID,
		Keyword:    req.Keyword,
	}.Normalize(uc.defaultPageSize)

	// 2. 查询
	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	names, err := uc.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	// 3. 转换为DTO
	list := make([]BookListItem, len(books))
	for i, b := range books {
		item := BookListItem{
			ID:         b.ID,
			Title:      b.Title,
			Author:     b.Author,
			CategoryID: b.CategoryID,
			Price:      b.Price.StringFixed(2),
			Quantity:   b.Quantity,
			ISBN:       b.ISBN,
			ImageURL:   b.ImageURL,
			CreatedAt:  b.CreatedAt.Format(timeLayout),
		}
		if b.CategoryID != nil {
			item.CategoryName = names[*b.CategoryID]
		}
		list[i] = item
	}

	// 4. 计算总页数
	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (uc *ListBooksUseCase) categoryNames(ctx context.Context) (map[uint]string, error) {
	categories, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}
