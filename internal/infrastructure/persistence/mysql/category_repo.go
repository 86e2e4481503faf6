package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
)

// categoryRepository 分类仓储实现(MySQL)
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{Name: c.Name}
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "创建分类失败")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}

func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	result := dbFromContext(ctx, r.db).Model(&CategoryModel{ID: c.ID}).Update("name", c.Name)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return category.ErrNameDuplicate
		}
		return apperrors.Wrap(result.Error, "更新分类失败")
	}
	return nil
}

// Delete 删除分类
// 教学要点:先把图书的category_id置NULL,再删除分类,两步在同一事务中
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&BookModel{}).Unscoped().
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return apperrors.Wrap(err, "解除图书分类失败")
		}

		result := tx.Delete(&CategoryModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "删除分类失败")
		}
		if result.RowsAffected == 0 {
			return category.ErrCategoryNotFound
		}
		return nil
	})
}

func (r *categoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := dbFromContext(ctx, r.db).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类列表失败")
	}
	list := make([]*category.Category, len(models))
	for i := range models {
		list[i] = toCategoryEntity(&models[i])
	}
	return list, nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := dbFromContext(ctx, r.db).Model(&CategoryModel{}).Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计分类总数失败")
	}
	return total, nil
}

func toCategoryEntity(model *CategoryModel) *category.Category {
	return &category.Category{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
