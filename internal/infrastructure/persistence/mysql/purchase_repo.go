package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
)

// purchaseRepository 购买账本实现(MySQL)
// 只有INSERT,没有UPDATE/DELETE
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建购买记录仓储
func NewPurchaseRepository(db *gorm.DB) purchase.Repository {
	return &purchaseRepository{db: db}
}

// Append 追加购买记录
// purchase_date由autoCreateTime在插入时填充,回填到实体
func (r *purchaseRepository) Append(ctx context.Context, p *purchase.Purchase) (uint, error) {
	model := &PurchaseModel{
		BookID:     p.BookID,
		BookTitle:  p.BookTitle,
		BookImage:  p.BookImage,
		BookPrice:  p.BookPrice,
		Quantity:   p.Quantity,
		TotalPrice: p.TotalPrice,
		UserID:     p.UserID,
	}

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return 0, apperrors.Wrap(err, "写入购买记录失败")
	}

	p.ID = model.ID
	p.PurchasedAt = model.PurchaseDate
	return model.ID, nil
}

func (r *purchaseRepository) FindByID(ctx context.Context, id uint) (*purchase.Purchase, error) {
	var model PurchaseModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, purchase.ErrPurchaseNotFound
		}
		return nil, apperrors.Wrap(err, "查询购买记录失败")
	}
	return toPurchaseEntity(&model), nil
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*purchase.Purchase, int64, error) {
	return r.list(ctx, dbFromContext(ctx, r.db).Where("user_id = ?", userID), page, pageSize)
}

func (r *purchaseRepository) List(ctx context.Context, page, pageSize int) ([]*purchase.Purchase, int64, error) {
	return r.list(ctx, dbFromContext(ctx, r.db), page, pageSize)
}

// TotalRevenue 销售总额 SUM(total_price)
func (r *purchaseRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := dbFromContext(ctx, r.db).Model(&PurchaseModel{}).
		Select("COALESCE(SUM(total_price), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, apperrors.Wrap(err, "统计销售总额失败")
	}
	return total, nil
}

func (r *purchaseRepository) list(ctx context.Context, query *gorm.DB, page, pageSize int) ([]*purchase.Purchase, int64, error) {
	var models []PurchaseModel
	var total int64

	query = query.Model(&PurchaseModel{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询购买记录总数失败")
	}

	err := query.Order("purchase_date DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询购买记录失败")
	}

	list := make([]*purchase.Purchase, len(models))
	for i := range models {
		list[i] = toPurchaseEntity(&models[i])
	}
	return list, total, nil
}

func toPurchaseEntity(model *PurchaseModel) *purchase.Purchase {
	return &purchase.Purchase{
		ID:          model.ID,
		BookID:      model.BookID,
		BookTitle:   model.BookTitle,
		BookImage:   model.BookImage,
		BookPrice:   model.BookPrice,
		Quantity:    model.Quantity,
		TotalPrice:  model.TotalPrice,
		PurchasedAt: model.PurchaseDate,
		UserID:      model.UserID,
	}
}
