package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
)

// IdempotencyStore 幂等键存储
// redis.IdempotencyStore和memory.IdempotencyStore实现了该接口
type IdempotencyStore interface {
	// Reserve 占用幂等键,fingerprint是购买参数的指纹
	// 返回值:reserved=true表示首次出现;否则purchaseID>0表示已完成,0表示处理中
	// 键已绑定其他指纹时返回purchase.ErrIdempotencyKeyMismatch
	Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (purchaseID uint, reserved bool, err error)
	// Complete 记录幂等键对应的购买ID
	Complete(ctx context.Context, key, fingerprint string, purchaseID uint, ttl time.Duration) error
	// Release 释放幂等键(购买未成功,允许重试)
	Release(ctx context.Context, key string) error
}

// RecordFinder 按ID查询购买记录
type RecordFinder interface {
	FindByID(ctx context.Context, id uint) (*purchase.Purchase, error)
}

// IdempotentPurchaser 支持Idempotency-Key的购买入口
// 教学要点:
// 1. 用户重复点击"购买"或网关重试时,同一个键只购买一次
// 2. 只有成功的购买会绑定幂等键;失败后释放,用户可以用同一个键重试
// 3. 幂等键和购买参数绑定:同一个键换了图书、数量或买家,直接拒绝,不回放别人的记录
// 4. 幂等存储不可用时降级为普通购买,只记录告警
type IdempotentPurchaser struct {
	coordinator *Coordinator
	store       IdempotencyStore
	records     RecordFinder
	ttl         time.Duration
	logger      *slog.Logger
}

// NewIdempotentPurchaser 创建幂等购买入口
// store为nil时不做幂等控制
func NewIdempotentPurchaser(coordinator *Coordinator, store IdempotencyStore, records RecordFinder, ttl time.Duration, logger *slog.Logger) *IdempotentPurchaser {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotentPurchaser{
		coordinator: coordinator,
		store:       store,
		records:     records,
		ttl:         ttl,
		logger:      logger,
	}
}

// Purchase 执行购买;key为空时等价于Coordinator.Purchase
func (p *IdempotentPurchaser) Purchase(ctx context.Context, key string, bookID uint, quantity int, buyerID uint) (Result, error) {
	if key == "" || p.store == nil {
		return p.coordinator.Purchase(ctx, bookID, quantity, buyerID)
	}

	fingerprint := requestFingerprint(bookID, quantity, buyerID)
	existingID, reserved, err := p.store.Reserve(ctx, key, fingerprint, p.ttl)
	if errors.Is(err, purchase.ErrIdempotencyKeyMismatch) {
		p.logger.WarnContext(ctx, "幂等键被不同的购买参数复用",
			slog.String("idempotency_key", key), slog.Uint64("buyer_id", uint64(buyerID)))
		return Result{}, err
	}
	if err != nil {
		p.logger.WarnContext(ctx, "幂等键存储不可用,按普通购买处理",
			slog.String("idempotency_key", key), slog.Any("error", err))
		return p.coordinator.Purchase(ctx, bookID, quantity, buyerID)
	}
	if !reserved {
		if existingID == 0 {
			return Result{}, purchase.ErrDuplicateRequest
		}
		return p.replay(ctx, existingID)
	}

	result, err := p.coordinator.Purchase(ctx, bookID, quantity, buyerID)
	// 购买已经结束,幂等键的更新不受调用方取消影响
	bg := context.WithoutCancel(ctx)
	if err != nil || !result.Succeeded() {
		if relErr := p.store.Release(bg, key); relErr != nil {
			p.logger.WarnContext(ctx, "释放幂等键失败", slog.String("idempotency_key", key), slog.Any("error", relErr))
		}
		return result, err
	}

	if cErr := p.store.Complete(bg, key, fingerprint, result.PurchaseID, p.ttl); cErr != nil {
		p.logger.WarnContext(ctx, "记录幂等键失败", slog.String("idempotency_key", key), slog.Any("error", cErr))
	}
	return result, nil
}

// requestFingerprint 购买参数指纹,格式 bookID:quantity:buyerID
func requestFingerprint(bookID uint, quantity int, buyerID uint) string {
	return fmt.Sprintf("%d:%d:%d", bookID, quantity, buyerID)
}

func (p *IdempotentPurchaser) replay(ctx context.Context, purchaseID uint) (Result, error) {
	result := Result{Outcome: OutcomeSuccess, PurchaseID: purchaseID, Replayed: true}
	if p.records == nil {
		return result, nil
	}
	record, err := p.records.FindByID(ctx, purchaseID)
	if err != nil {
		return Result{}, err
	}
	result.Purchase = record
	return result, nil
}
