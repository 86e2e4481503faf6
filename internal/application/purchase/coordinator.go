// Package purchase 购买用例:库存扣减与购买记录写入的协调者
//
// 购买流程(状态机):
//
//	START → BOOK_LOOKED_UP → STOCK_RESERVED → LEDGER_WRITTEN → SUCCESS
//	          ↓ 不存在           ↓ 库存不足/已删除   ↓ 写入失败
//	      BookNotFound    InsufficientStock    回补库存 → LedgerFailure
//	                                                ↓ 回补失败
//	                                   LedgerFailureCompensationFailed
//
// 教学要点:
// 1. Coordinator内没有锁,同一本书的并发购买由存储的条件更新串行化
// 2. 有事务能力时(MySQL),扣库存和写记录放在一个事务里,写入失败自动回滚
// 3. 没有事务能力时,通过pkg/saga执行,写入失败时回补库存
// 4. 进入扣库存步骤之后不再响应取消,避免半途放弃
package purchase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
	"github.com/xiebiao/bookstore-inventory/pkg/metrics"
	"github.com/xiebiao/bookstore-inventory/pkg/saga"
	"github.com/xiebiao/bookstore-inventory/pkg/tracing"
)

const tracerName = "bookstore/purchase"

// 步骤名(日志、Span、saga共用)
const (
	stepLookup     = "lookup_book"
	stepReserve    = "reserve_stock"
	stepLedger     = "append_ledger"
	stepCompensate = "compensate_stock"
)

// Transactor 事务执行器
// fn收到的ctx携带事务,CatalogStore和Ledger用它执行的操作属于同一事务
// mysql.TxManager实现了该接口
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Coordinator 购买协调者
type Coordinator struct {
	catalog   book.StockStore
	ledger    purchase.Ledger
	tx        Transactor
	publisher purchase.EventPublisher
	logger    *slog.Logger

	compensationAttempts int
	compensationBackoff  time.Duration
}

// Option Coordinator配置项
type Option func(*Coordinator)

// WithTransactor 使用事务策略
// 只有catalog和ledger能从ctx中取出同一个事务时才能使用
func WithTransactor(tx Transactor) Option {
	return func(c *Coordinator) { c.tx = tx }
}

// WithEventPublisher 设置事件发布者
func WithEventPublisher(p purchase.EventPublisher) Option {
	return func(c *Coordinator) {
		if p != nil {
			c.publisher = p
		}
	}
}

// WithLogger 设置日志
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCompensationRetry 补偿策略下回补库存的重试
// 只重试book.ErrStockConflict,其他回补错误直接上报对账
func WithCompensationRetry(attempts int, backoff time.Duration) Option {
	return func(c *Coordinator) {
		if attempts < 1 {
			attempts = 1
		}
		c.compensationAttempts = attempts
		c.compensationBackoff = backoff
	}
}

// NewCoordinator 创建购买协调者
// 默认使用补偿策略,不发布事件
func NewCoordinator(catalog book.StockStore, ledger purchase.Ledger, opts ...Option) *Coordinator {
	c := &Coordinator{
		catalog:              catalog,
		ledger:               ledger,
		publisher:            purchase.NopPublisher{},
		logger:               slog.Default(),
		compensationAttempts: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Strategy 当前使用的一致性策略
func (c *Coordinator) Strategy() string {
	if c.tx != nil {
		return "transaction"
	}
	return "compensation"
}

// Purchase 购买quantity本bookID图书
//
// 返回值:
//   - (Result, nil): 业务结果,见Outcome
//   - (Result{}, err): quantity<=0或bookID==0(不访问任何存储)、存储故障、扣库存之前ctx被取消
func (c *Coordinator) Purchase(ctx context.Context, bookID uint, quantity int, buyerID uint) (Result, error) {
	if quantity <= 0 {
		return Result{}, purchase.ErrInvalidQuantity
	}
	if bookID == 0 {
		return Result{}, purchase.ErrInvalidBookID
	}

	defer metrics.TrackPurchaseInProgress()()
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, tracerName, "Purchase", trace.WithAttributes(
		attribute.Int64("book.id", int64(bookID)),
		attribute.Int("purchase.quantity", quantity),
		attribute.Int64("buyer.id", int64(buyerID)),
		attribute.String("purchase.strategy", c.Strategy()),
	))

	result, err := c.purchase(ctx, bookID, quantity, buyerID)

	outcome := result.Outcome.String()
	spanErr := err
	if err != nil {
		outcome = "error"
	} else if result.Cause != nil {
		spanErr = result.Cause
	}
	span.SetAttributes(attribute.String("purchase.outcome", outcome))
	tracing.EndSpan(span, spanErr)
	metrics.ObservePurchase(outcome, time.Since(start))

	return result, err
}

func (c *Coordinator) purchase(ctx context.Context, bookID uint, quantity int, buyerID uint) (Result, error) {
	log := c.logger.With(
		slog.Uint64("book_id", uint64(bookID)),
		slog.Int("quantity", quantity),
		slog.Uint64("buyer_id", uint64(buyerID)),
	)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// 1. 查询图书并取快照(写入购买记录的是这里读到的书名、价格、封面)
	snapshot, err := c.lookup(ctx, bookID)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			log.DebugContext(ctx, "购买失败:图书不存在")
			return Result{Outcome: OutcomeBookNotFound}, nil
		}
		log.ErrorContext(ctx, "查询图书失败", slog.String("step", stepLookup), slog.Any("error", err))
		return Result{}, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "查询图书失败")
	}

	record, err := purchase.NewPurchase(snapshot, quantity, buyerID)
	if err != nil {
		return Result{}, err
	}

	// 2. 扣库存之前最后一次检查取消
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	work := context.WithoutCancel(ctx)

	var result Result
	if c.tx != nil {
		result, err = c.runInTransaction(work, log, record)
	} else {
		result, err = c.runWithCompensation(work, log, record)
	}
	if err != nil || !result.Succeeded() {
		return result, err
	}

	c.publishCompleted(work, log, record)
	return result, nil
}

func (c *Coordinator) lookup(ctx context.Context, bookID uint) (*book.Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, stepLookup)
	b, err := c.catalog.FindByID(ctx, bookID)
	if errors.Is(err, book.ErrBookNotFound) {
		tracing.EndSpan(span, nil)
	} else {
		tracing.EndSpan(span, err)
	}
	return b, err
}

// runInTransaction 事务策略
// 写入失败或提交失败时事务回滚,扣减的库存随之撤销,不需要补偿
func (c *Coordinator) runInTransaction(ctx context.Context, log *slog.Logger, record *purchase.Purchase) (Result, error) {
	failedAt := stepReserve
	var id uint
	err := c.tx.Transaction(ctx, func(txCtx context.Context) error {
		if err := c.reserve(txCtx, record); err != nil {
			return err
		}
		failedAt = stepLedger

		var err error
		id, err = c.appendLedger(txCtx, record)
		return err
	})

	if err == nil {
		return Result{Outcome: OutcomeSuccess, PurchaseID: id, Purchase: record}, nil
	}
	if failedAt == stepReserve {
		return c.reservationFailed(ctx, log, err)
	}

	log.ErrorContext(ctx, "购买记录写入失败,事务已回滚",
		slog.String("step", stepLedger), slog.Any("error", err))
	return Result{Outcome: OutcomeLedgerFailure, Cause: err}, nil
}

// runWithCompensation 补偿策略
func (c *Coordinator) runWithCompensation(ctx context.Context, log *slog.Logger, record *purchase.Purchase) (Result, error) {
	var id uint
	s := saga.NewSaga(0,
		saga.WithCompensationRetry(c.compensationAttempts, c.compensationBackoff),
		saga.WithRetryIf(restoreRetryable))
	s.AddStep(stepReserve,
		func(ctx context.Context) error { return c.reserve(ctx, record) },
		func(ctx context.Context) error { return c.restore(ctx, record) },
	)
	s.AddStep(stepLedger, func(ctx context.Context) error {
		var err error
		id, err = c.appendLedger(ctx, record)
		return err
	}, nil)

	err := s.Execute(ctx)
	if err == nil {
		return Result{Outcome: OutcomeSuccess, PurchaseID: id, Purchase: record}, nil
	}

	var execErr *saga.ExecutionError
	if !errors.As(err, &execErr) {
		return Result{}, err
	}
	if execErr.Step == stepReserve {
		return c.reservationFailed(ctx, log, execErr.Err)
	}

	if execErr.Compensated() {
		metrics.RecordCompensation(true)
		log.ErrorContext(ctx, "购买记录写入失败,库存已回补",
			slog.String("step", stepLedger), slog.Any("error", execErr.Err))
		return Result{Outcome: OutcomeLedgerFailure, Cause: execErr.Err}, nil
	}

	metrics.RecordCompensation(false)
	c.reportIncident(ctx, log, record, execErr.Err, execErr.CompensationErr)
	return Result{Outcome: OutcomeLedgerFailureCompensationFailed, Cause: err}, nil
}

// reservationFailed 扣库存失败的结果映射
func (c *Coordinator) reservationFailed(ctx context.Context, log *slog.Logger, err error) (Result, error) {
	switch {
	case errors.Is(err, book.ErrInsufficientStock):
		log.DebugContext(ctx, "购买失败:库存不足")
		return Result{Outcome: OutcomeInsufficientStock}, nil
	case errors.Is(err, book.ErrBookNotFound):
		// 查询之后、扣减之前图书被删除
		log.DebugContext(ctx, "购买失败:图书已被删除")
		return Result{Outcome: OutcomeBookNotFound}, nil
	default:
		log.ErrorContext(ctx, "扣减库存失败", slog.String("step", stepReserve), slog.Any("error", err))
		return Result{}, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "扣减库存失败")
	}
}

func (c *Coordinator) reserve(ctx context.Context, record *purchase.Purchase) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, stepReserve)
	err := c.catalog.DecrementStockIfAvailable(ctx, record.BookID, record.Quantity)
	if errors.Is(err, book.ErrInsufficientStock) || errors.Is(err, book.ErrBookNotFound) {
		span.SetAttributes(attribute.String("reserve.rejected", err.Error()))
		tracing.EndSpan(span, nil)
	} else {
		tracing.EndSpan(span, err)
	}
	return err
}

func (c *Coordinator) appendLedger(ctx context.Context, record *purchase.Purchase) (uint, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, stepLedger)
	id, err := c.ledger.Append(ctx, record)
	tracing.EndSpan(span, err)
	return id, err
}

func (c *Coordinator) restore(ctx context.Context, record *purchase.Purchase) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, stepCompensate)
	err := c.catalog.IncrementStock(ctx, record.BookID, record.Quantity)
	tracing.EndSpan(span, err)
	if err != nil {
		c.logger.WarnContext(ctx, "回补库存失败",
			slog.Uint64("book_id", uint64(record.BookID)),
			slog.Int("quantity", record.Quantity),
			slog.Any("error", err))
	}
	return err
}

// restoreRetryable 回补库存(quantity + ?)不是幂等的
// 只有确定没有生效的锁冲突可以重试;其他错误下回补可能已经执行,重试会把库存加多,交给对账处理
func restoreRetryable(err error) bool {
	return errors.Is(err, book.ErrStockConflict)
}

// reportIncident 库存已扣减但没有购买记录
func (c *Coordinator) reportIncident(ctx context.Context, log *slog.Logger, record *purchase.Purchase, ledgerErr, compErr error) {
	metrics.RecordReconciliationIncident()
	log.ErrorContext(ctx, "reconciliation incident: 库存已扣减但购买记录未写入",
		slog.String("step", stepCompensate),
		slog.String("trace_id", tracing.ExtractTraceID(ctx)),
		slog.Any("ledger_error", ledgerErr),
		slog.Any("compensation_error", compErr))

	incident := purchase.ReconciliationIncident{
		EventID:           uuid.NewString(),
		BookID:            record.BookID,
		Quantity:          record.Quantity,
		UserID:            record.UserID,
		LedgerError:       errString(ledgerErr),
		CompensationError: errString(compErr),
		OccurredAt:        time.Now(),
	}
	if err := c.publisher.PublishReconciliationIncident(ctx, incident); err != nil {
		log.ErrorContext(ctx, "对账事故发布失败", slog.String("event_id", incident.EventID), slog.Any("error", err))
	}
}

// publishCompleted 发布购买成功事件,失败不影响购买结果
func (c *Coordinator) publishCompleted(ctx context.Context, log *slog.Logger, record *purchase.Purchase) {
	event := purchase.CompletedEvent{
		EventID:    uuid.NewString(),
		PurchaseID: record.ID,
		BookID:     record.BookID,
		UserID:     record.UserID,
		Quantity:   record.Quantity,
		TotalPrice: record.TotalPrice,
		OccurredAt: record.PurchasedAt,
	}
	if err := c.publisher.PublishCompleted(ctx, event); err != nil {
		log.WarnContext(ctx, "购买事件发布失败", slog.String("event_id", event.EventID), slog.Any("error", err))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
