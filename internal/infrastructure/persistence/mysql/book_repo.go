package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如ISBN重复),转换为业务错误
// 4. 所有方法通过dbFromContext参与调用方的事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	if err := dbFromContext(ctx, r.db).Where("isbn = ?", isbn).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新图书信息
// 教学要点:Omit("quantity")保证编辑图书不会用旧值覆盖并发购买后的库存
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	model.UpdatedAt = time.Now()

	db := dbFromContext(ctx, r.db)
	result := db.Model(&BookModel{ID: b.ID}).
		Select("title", "author", "category_id", "price", "isbn", "publication_date", "description", "image_url", "updated_at").
		Updates(model)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		// MySQL只统计实际变化的行,值未变时也是0,需要确认图书是否存在
		var existing BookModel
		if err := db.Select("id").First(&existing, b.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return apperrors.Wrap(err, "查询图书失败")
		}
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(软删除)
// 同时释放ISBN,允许之后重新上架同一ISBN的图书
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := dbFromContext(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"isbn":       nil,
			"deleted_at": time.Now(),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询图书列表
// 关键词匹配:书名、作者、ISBN、分类名(模糊),图书ID(精确)
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := dbFromContext(ctx, r.db).Model(&BookModel{})

	if params.CategoryID != nil {
		query = query.Where("books.category_id = ?", *params.CategoryID)
	}

	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.
			Joins("LEFT JOIN categories ON categories.id = books.category_id").
			Where("(books.title LIKE ? OR books.author LIKE ? OR books.isbn LIKE ? OR categories.name LIKE ? OR CAST(books.id AS CHAR) = ?)",
				like, like, like, like, keyword)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	err := query.Select("books.*").
		Order("books.id ASC").
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// Count 图书总数
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := dbFromContext(ctx, r.db).Model(&BookModel{}).Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计图书总数失败")
	}
	return total, nil
}

// CountLowStock 库存低于阈值的图书数量
func (r *bookRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var total int64
	err := dbFromContext(ctx, r.db).Model(&BookModel{}).
		Where("quantity < ?", threshold).
		Count(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计低库存图书失败")
	}
	return total, nil
}

// DecrementStockIfAvailable 库存充足时原子扣减
// 教学要点:
// 1. 单条条件UPDATE完成"检查+扣减":
//    UPDATE books SET quantity = quantity - ? WHERE id = ? AND quantity >= ? AND deleted_at IS NULL
// 2. InnoDB对该行加排他锁,同一本书的并发扣减自动串行,不会超卖
// 3. 影响行数为0时再查一次,区分"图书不存在"和"库存不足"(这次查询不修改数据)
func (r *bookRepository) DecrementStockIfAvailable(ctx context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return book.ErrInvalidQuantity
	}

	db := dbFromContext(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ? AND quantity >= ?", id, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		if isLockConflict(result.Error) {
			return stockConflict(result.Error)
		}
		return apperrors.Wrap(result.Error, "扣减库存失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var model BookModel
	if err := db.Select("id").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return book.ErrBookNotFound
		}
		return apperrors.Wrap(err, "查询图书失败")
	}
	return book.ErrInsufficientStock
}

// IncrementStock 无条件增加库存(补偿、补货)
// 该语句不是幂等的:只有锁冲突(确定未生效)返回book.ErrStockConflict,
// 其他错误下语句可能已经执行,调用方不能盲目重试
func (r *bookRepository) IncrementStock(ctx context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return book.ErrInvalidQuantity
	}

	result := dbFromContext(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		if isLockConflict(result.Error) {
			return stockConflict(result.Error)
		}
		return apperrors.Wrap(result.Error, "增加库存失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		CategoryID:      b.CategoryID,
		Price:           b.Price,
		Quantity:        b.Quantity,
		ISBN:            b.ISBN,
		PublicationDate: b.PublicationDate,
		Description:     b.Description,
		ImageURL:        b.ImageURL,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:              model.ID,
		Title:           model.Title,
		Author:          model.Author,
		CategoryID:      model.CategoryID,
		Price:           model.Price,
		Quantity:        model.Quantity,
		ISBN:            model.ISBN,
		PublicationDate: model.PublicationDate,
		Description:     model.Description,
		ImageURL:        model.ImageURL,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
