// Package messaging 把购买事件发布到RabbitMQ
//
// 教学要点:
// 1. 发布经过熔断器,Broker故障时快速失败,不拖慢购买请求
// 2. 每次发布有独立超时
// 3. 事件ID作为消息ID,消费端据此去重
package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
	"github.com/xiebiao/bookstore-inventory/pkg/circuitbreaker"
	"github.com/xiebiao/bookstore-inventory/pkg/metrics"
)

// MessagePublisher 消息发布(mq.Publisher实现了该接口)
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey, messageID string, message interface{}) error
	Exchange() string
}

// EventPublisher 实现purchase.EventPublisher
type EventPublisher struct {
	mq      MessagePublisher
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	logger  *slog.Logger
}

// NewEventPublisher 创建事件发布者
func NewEventPublisher(mq MessagePublisher, breaker *circuitbreaker.CircuitBreaker, timeout time.Duration, logger *slog.Logger) *EventPublisher {
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker("rabbitmq-publish", circuitbreaker.DefaultConfig())
	}
	if logger == nil {
		logger = slog.Default()
	}
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			slog.String("breaker", name),
			slog.String("from", from.String()),
			slog.String("to", to.String()))
	})
	return &EventPublisher{
		mq:      mq,
		breaker: breaker,
		timeout: timeout,
		logger:  logger,
	}
}

// PublishCompleted 发布购买成功事件
func (p *EventPublisher) PublishCompleted(ctx context.Context, event purchase.CompletedEvent) error {
	return p.publish(ctx, purchase.RoutingKeyCompleted, event.EventID, event)
}

// PublishReconciliationIncident 发布对账事故
func (p *EventPublisher) PublishReconciliationIncident(ctx context.Context, incident purchase.ReconciliationIncident) error {
	return p.publish(ctx, purchase.RoutingKeyReconciliation, incident.EventID, incident)
}

func (p *EventPublisher) publish(ctx context.Context, routingKey, messageID string, message interface{}) error {
	err := p.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		if p.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		return p.mq.Publish(ctx, routingKey, messageID, message)
	})
	metrics.RecordPublish(p.mq.Exchange(), routingKey, err == nil)
	if err != nil {
		p.logger.DebugContext(ctx, "消息发布失败",
			slog.String("routing_key", routingKey),
			slog.String("message_id", messageID),
			slog.Any("error", err))
	}
	return err
}

var _ purchase.EventPublisher = (*EventPublisher)(nil)
