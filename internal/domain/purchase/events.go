package purchase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 事件路由键
const (
	RoutingKeyCompleted      = "purchase.completed"
	RoutingKeyReconciliation = "inventory.reconciliation_required"
)

// CompletedEvent 购买成功事件
type CompletedEvent struct {
	EventID    string          `json:"event_id"`
	PurchaseID uint            `json:"purchase_id"`
	BookID     uint            `json:"book_id"`
	UserID     uint            `json:"user_id"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ReconciliationIncident 对账事故
// 购买记录写入失败,且回补库存也失败:库存已被扣减但没有对应的购买记录
type ReconciliationIncident struct {
	EventID           string    `json:"event_id"`
	BookID            uint      `json:"book_id"`
	Quantity          int       `json:"quantity"`
	UserID            uint      `json:"user_id"`
	LedgerError       string    `json:"ledger_error"`
	CompensationError string    `json:"compensation_error"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// EventPublisher 购买事件发布者
// 发布失败不影响购买结果,调用方只记录日志
type EventPublisher interface {
	PublishCompleted(ctx context.Context, event CompletedEvent) error
	PublishReconciliationIncident(ctx context.Context, incident ReconciliationIncident) error
}

// NopPublisher 不发布任何事件(未启用消息队列时使用)
type NopPublisher struct{}

func (NopPublisher) PublishCompleted(context.Context, CompletedEvent) error { return nil }

func (NopPublisher) PublishReconciliationIncident(context.Context, ReconciliationIncident) error {
	return nil
}
