package book

import (
	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0且最多两位小数")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInvalidQuantity 无效的数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrStockConflict 库存行锁冲突,本次修改没有生效,可以安全重试
	ErrStockConflict = apperrors.New(apperrors.ErrCodeDatabaseError, "库存繁忙,请稍后重试")

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")

	// ErrEmptyTitle 书名为空
	ErrEmptyTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrEmptyAuthor 作者为空
	ErrEmptyAuthor = apperrors.New(apperrors.ErrCodeInvalidParams, "作者不能为空")
)
