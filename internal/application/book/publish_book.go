package book

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
)

// 时间格式
const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// PublishBookUseCase 图书上架用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO,与HTTP层解耦
// 3. 分类属于另一个聚合,是否存在由应用层检查
type PublishBookUseCase struct {
	bookService book.Service
	categories  category.Repository
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(bookService book.Service, categories category.Repository) *PublishBookUseCase {
	return &PublishBookUseCase{
		bookService: bookService,
		categories:  categories,
	}
}

// BookInput 图书的可编辑属性(上架与编辑共用)
type BookInput struct {
	Title           string
	Author          string
	CategoryID      *uint // nil表示未分类
	Price           decimal.Decimal
	ISBN            *string
	PublicationDate *time.Time
	Description     string
	ImageURL        string
}

func (in BookInput) attributes() book.Attributes {
	return book.Attributes{
		Title:           in.Title,
		Author:          in.Author,
		CategoryID:      in.CategoryID,
		Price:           in.Price,
		ISBN:            in.ISBN,
		PublicationDate: in.PublicationDate,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
	}
}

// PublishBookRequest 上架请求DTO
type PublishBookRequest struct {
	BookInput
	Quantity int // 初始库存
}

// BookDetail 图书详情DTO
type BookDetail struct {
	ID              uint    `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	CategoryID      *uint   `json:"category_id"`
	Price           string  `json:"price"` // 价格(元,两位小数)
	Quantity        int     `json:"quantity"`
	ISBN            *string `json:"isbn"`
	PublicationDate string  `json:"publication_date,omitempty"`
	Description     string  `json:"description"`
	ImageURL        string  `json:"image_url"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// Execute 执行上架用例
// 学习要点:
// 1. 业务规则校验由领域服务负责(价格、ISBN格式与唯一性等)
// 2. 应用层只负责流程编排
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookDetail, error) {
	if err := ensureCategory(ctx, uc.categories, req.CategoryID); err != nil {
		return nil, err
	}

	b, err := uc.bookService.CreateBook(ctx, req.attributes(), req.Quantity)
	if err != nil {
		return nil, err
	}
	return toBookDetail(b), nil
}

// ensureCategory 分类存在(nil表示未分类,不检查)
func ensureCategory(ctx context.Context, categories category.Repository, id *uint) error {
	if id == nil {
		return nil
	}
	_, err := categories.FindByID(ctx, *id)
	return err
}

func toBookDetail(b *book.Book) *BookDetail {
	d := &BookDetail{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		CategoryID:  b.CategoryID,
		Price:       b.Price.StringFixed(2),
		Quantity:    b.Quantity,
		ISBN:        b.ISBN,
		Description: b.Description,
		ImageURL:    b.ImageURL,
		CreatedAt:   b.CreatedAt.Format(timeLayout),
		UpdatedAt:   b.UpdatedAt.Format(timeLayout),
	}
	if b.PublicationDate != nil {
		d.PublicationDate = b.PublicationDate.Format(dateLayout)
	}
	return d
}
