package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
)

type idemEntry struct {
	fingerprint string
	purchaseID  uint // 0表示处理中
	expiresAt   time.Time
}

// IdempotencyStore 内存幂等存储,语义与Redis实现一致
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idemEntry
	now     func() time.Time
}

// NewIdempotencyStore 创建内存幂等存储
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: make(map[string]idemEntry), now: time.Now}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key, fingerprint string, ttl time.Duration) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		if e.fingerprint != fingerprint {
			return 0, false, purchase.ErrIdempotencyKeyMismatch
		}
		return e.purchaseID, false, nil
	}
	s.entries[key] = idemEntry{fingerprint: fingerprint, expiresAt: now.Add(ttl)}
	return 0, true, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key, fingerprint string, purchaseID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = idemEntry{fingerprint: fingerprint, purchaseID: purchaseID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
