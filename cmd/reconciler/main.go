// Package main 对账事故消费者
// 订阅 inventory.reconciliation_required 事件,把库存已扣减但缺少购买记录的事故落到错误日志,
// 供运维人工对账
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/logger"
	"github.com/xiebiao/bookstore-inventory/pkg/metrics"
	"github.com/xiebiao/bookstore-inventory/pkg/mq"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "对账消费者异常退出: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	log, closeLog, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer closeLog()
	metrics.InitMetrics()

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		cfg.MQ.ExchangeType,
		cfg.MQ.IncidentQueue,
		[]string{purchase.RoutingKeyReconciliation},
	)
	if err != nil {
		return fmt.Errorf("连接消息队列失败: %w", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Warn("关闭消费者失败", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("对账消费者已启动", slog.String("queue", consumer.Queue()))
	handler := incidentHandler(log, consumer.Queue())
	if err := consumer.Consume(ctx, handler); err != nil {
		return err
	}
	log.Info("对账消费者已关闭")
	return nil
}

// incidentHandler 解析并记录对账事故
// 无法解析的消息包装ErrDiscard丢弃,避免无限重投
func incidentHandler(log *slog.Logger, queue string) func(ctx context.Context, msg mq.Message) error {
	return func(ctx context.Context, msg mq.Message) error {
		var incident purchase.ReconciliationIncident
		if err := json.Unmarshal(msg.Body, &incident); err != nil {
			metrics.RecordConsume(queue, false)
			return fmt.Errorf("%w: 解析对账事故失败: %v", mq.ErrDiscard, err)
		}

		log.ErrorContext(ctx, "需要人工对账",
			slog.String("message_id", msg.ID),
			slog.String("event_id", incident.EventID),
			slog.Uint64("book_id", uint64(incident.BookID)),
			slog.Int("quantity", incident.Quantity),
			slog.Uint64("user_id", uint64(incident.UserID)),
			slog.String("ledger_error", incident.LedgerError),
			slog.String("compensation_error", incident.CompensationError),
			slog.Time("occurred_at", incident.OccurredAt),
		)
		metrics.RecordConsume(queue, true)
		return nil
	}
}
