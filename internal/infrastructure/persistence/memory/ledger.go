package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
)

// Ledger 内存购买账本(实现purchase.Repository)
type Ledger struct {
	mu      sync.Mutex
	nextID  uint
	records []purchase.Purchase
	now     func() time.Time
}

// NewLedger 创建内存账本
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// Append 追加记录,设置购买时间
func (l *Ledger) Append(_ context.Context, p *purchase.Purchase) (uint, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	p.ID = l.nextID
	p.PurchasedAt = l.now()
	l.records = append(l.records, *p)
	return p.ID, nil
}

func (l *Ledger) FindByID(_ context.Context, id uint) (*purchase.Purchase, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.records {
		if l.records[i].ID == id {
			cp := l.records[i]
			return &cp, nil
		}
	}
	return nil, purchase.ErrPurchaseNotFound
}

func (l *Ledger) ListByUser(_ context.Context, userID uint, page, pageSize int) ([]*purchase.Purchase, int64, error) {
	return l.list(func(p *purchase.Purchase) bool { return p.UserID == userID }, page, pageSize)
}

func (l *Ledger) List(_ context.Context, page, pageSize int) ([]*purchase.Purchase, int64, error) {
	return l.list(func(*purchase.Purchase) bool { return true }, page, pageSize)
}

func (l *Ledger) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := decimal.Zero
	for i := range l.records {
		total = total.Add(l.records[i].TotalPrice)
	}
	return total, nil
}

// Len 记录条数(测试用)
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// list 最新的在前
func (l *Ledger) list(match func(*purchase.Purchase) bool, page, pageSize int) ([]*purchase.Purchase, int64, error) {
	l.mu.Lock()
	matched := make([]*purchase.Purchase, 0)
	for i := range l.records {
		if match(&l.records[i]) {
			cp := l.records[i]
			matched = append(matched, &cp)
		}
	}
	l.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PurchasedAt.Equal(matched[j].PurchasedAt) {
			return matched[i].PurchasedAt.After(matched[j].PurchasedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if pageSize <= 0 {
		start, pageSize = 0, len(matched)
	}
	if start >= len(matched) {
		return []*purchase.Purchase{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

var _ purchase.Repository = (*Ledger)(nil)
