package purchase

import (
	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
)

// 购买领域错误定义
var (
	// ErrPurchaseNotFound 购买记录不存在
	ErrPurchaseNotFound = apperrors.New(apperrors.ErrCodePurchaseNotFound, "购买记录不存在")

	// ErrInvalidQuantity 购买数量必须大于0
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidBookID 图书ID不合法
	ErrInvalidBookID = apperrors.New(apperrors.ErrCodeInvalidParams, "图书ID不合法")

	// ErrMissingSnapshot 缺少图书快照
	ErrMissingSnapshot = apperrors.New(apperrors.ErrCodeInternal, "缺少图书快照")

	// ErrDuplicateRequest 同一幂等键的请求正在处理
	ErrDuplicateRequest = apperrors.New(apperrors.ErrCodeDuplicateRequest, "请求正在处理中,请勿重复提交")

	// ErrIdempotencyKeyMismatch 幂等键已绑定另一组购买参数
	ErrIdempotencyKeyMismatch = apperrors.New(apperrors.ErrCodeIdempotencyKeyMismatch, "幂等键已用于其他购买请求")
)
