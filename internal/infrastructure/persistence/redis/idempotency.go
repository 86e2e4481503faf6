package redis

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
)

// pendingValue 幂等键处理中的占位值
const pendingValue = "pending"

// IdempotencyStore 购买请求幂等存储
// 设计说明：
// 1. Key设计：purchase:idem:{Idempotency-Key}
// 2. Value设计：{购买参数指纹}|{pending或购买ID}
// 3. SET NX占位("pending")，购买成功后改写为购买ID
// 4. 购买没有成功(库存不足等)时删除占位，允许客户端重试
// 5. 指纹不一致说明同一个键被用于另一笔购买，返回ErrIdempotencyKeyMismatch
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore 创建幂等存储
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func idempotencyKey(key string) string {
	return "purchase:idem:" + key
}

func idempotencyValue(fingerprint, state string) string {
	return fingerprint + "|" + state
}

// Reserve 占用幂等键
// 返回值：
// - reserved=true: 占用成功，调用方执行购买
// - reserved=false, purchaseID>0: 之前已成功购买
// - reserved=false, purchaseID=0: 同一个键的请求正在处理
func (s *IdempotencyStore) Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (uint, bool, error) {
	k := idempotencyKey(key)

	ok, err := s.client.SetNX(ctx, k, idempotencyValue(fingerprint, pendingValue), ttl).Result()
	if err != nil {
		return 0, false, apperrors.Wrap(err, "占用幂等键失败")
	}
	if ok {
		return 0, true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// 占位恰好过期或被释放，按处理中返回，由客户端重试
			return 0, false, nil
		}
		return 0, false, apperrors.Wrap(err, "读取幂等键失败")
	}
	stored, state, found := strings.Cut(val, "|")
	if !found {
		return 0, false, apperrors.Wrapf(errors.New("missing fingerprint"), "幂等键值不合法: %s", val)
	}
	if stored != fingerprint {
		return 0, false, purchase.ErrIdempotencyKeyMismatch
	}
	if state == pendingValue {
		return 0, false, nil
	}

	id, err := strconv.ParseUint(state, 10, 64)
	if err != nil {
		return 0, false, apperrors.Wrapf(err, "幂等键值不合法: %s", val)
	}
	return uint(id), false, nil
}

// Complete 记录幂等键对应的购买ID
func (s *IdempotencyStore) Complete(ctx context.Context, key, fingerprint string, purchaseID uint, ttl time.Duration) error {
	val := idempotencyValue(fingerprint, strconv.FormatUint(uint64(purchaseID), 10))
	if err := s.client.Set(ctx, idempotencyKey(key), val, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "保存幂等结果失败")
	}
	return nil
}

// Release 释放幂等键
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(key)).Err(); err != nil {
		return apperrors.Wrap(err, "释放幂等键失败")
	}
	return nil
}
