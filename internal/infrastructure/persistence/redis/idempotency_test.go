package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
)

// newTestClient 连接本地Redis,不可用时跳过
func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("BOOKSTORE_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis不可用,跳过: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIdempotencyStore_Lifecycle(t *testing.T) {
	store := NewIdempotencyStore(newTestClient(t))
	ctx := context.Background()
	key := uuid.NewString()
	fp := "1:2:7"
	defer store.Release(ctx, key)

	// 1. 第一次占用成功
	id, reserved, err := store.Reserve(ctx, key, fp, time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Zero(t, id)

	// 2. 处理中再次占用:不成功,也没有购买ID
	id, reserved, err = store.Reserve(ctx, key, fp, time.Minute)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Zero(t, id)

	// 3. 完成后再次占用:返回之前的购买ID
	require.NoError(t, store.Complete(ctx, key, fp, 42, time.Minute))
	id, reserved, err = store.Reserve(ctx, key, fp, time.Minute)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, uint(42), id)
}

func TestIdempotencyStore_Release(t *testing.T) {
	store := NewIdempotencyStore(newTestClient(t))
	ctx := context.Background()
	key := uuid.NewString()
	fp := "1:2:7"

	_, reserved, err := store.Reserve(ctx, key, fp, time.Minute)
	require.NoError(t, err)
	require.True(t, reserved)

	require.NoError(t, store.Release(ctx, key))

	_, reserved, err = store.Reserve(ctx, key, fp, time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved, "释放后应可以重新占用")
	require.NoError(t, store.Release(ctx, key))
}

func TestIdempotencyStore_FingerprintMismatch(t *testing.T) {
	store := NewIdempotencyStore(newTestClient(t))
	ctx := context.Background()
	key := uuid.NewString()
	defer store.Release(ctx, key)

	_, reserved, err := store.Reserve(ctx, key, "1:2:7", time.Minute)
	require.NoError(t, err)
	require.True(t, reserved)

	// 处理中被另一组参数复用
	_, reserved, err = store.Reserve(ctx, key, "2:5:8", time.Minute)
	assert.ErrorIs(t, err, purchase.ErrIdempotencyKeyMismatch)
	assert.False(t, reserved)

	// 完成后被另一组参数复用:不返回购买ID
	require.NoError(t, store.Complete(ctx, key, "1:2:7", 42, time.Minute))
	id, _, err := store.Reserve(ctx, key, "2:5:8", time.Minute)
	assert.ErrorIs(t, err, purchase.ErrIdempotencyKeyMismatch)
	assert.Zero(t, id)
}
