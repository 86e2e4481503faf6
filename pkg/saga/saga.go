// Package saga 实现基于补偿的多步操作编排
//
// Saga模式核心思想：
// 1. 将一个跨存储的操作拆分为多个本地步骤
// 2. 每个步骤可以有对应的补偿操作
// 3. 某步失败时，按逆序执行已完成步骤的补偿操作
//
// 教学要点：
// - 补偿失败不能被吞掉：Execute返回的ExecutionError同时携带步骤错误和补偿错误
// - 补偿操作在脱离取消信号的Context上执行，调用方取消请求不会打断补偿
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Step 表示Saga中的一个步骤
//
// 设计要点：
// 1. Action是正向操作（如扣减库存、写入购买记录）
// 2. Compensate是补偿操作（如回补库存），可以为nil
// 3. 启用补偿重试时，Compensate要么能安全地重复执行，
//    要么用WithRetryIf只重试确定没有生效的错误
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一次Saga执行
// 非并发安全，每次业务操作创建一个新的Saga
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间（0表示不限制）

	compensateAttempts int              // 每个补偿操作的最大尝试次数
	compensateBackoff  time.Duration    // 补偿重试间隔
	retryIf            func(error) bool // 哪些补偿错误可以重试(nil表示全部)
}

// Option Saga配置项
type Option func(*Saga)

// WithCompensationRetry 设置补偿操作的重试
// attempts<1时按1次处理
func WithCompensationRetry(attempts int, backoff time.Duration) Option {
	return func(s *Saga) {
		if attempts < 1 {
			attempts = 1
		}
		s.compensateAttempts = attempts
		s.compensateBackoff = backoff
	}
}

// WithRetryIf 只重试retryable返回true的补偿错误
// 补偿不是幂等操作时(如 quantity = quantity + ?)，结果不确定的错误不能重试，
// 否则一次已生效的补偿会被重复执行
func WithRetryIf(retryable func(error) bool) Option {
	return func(s *Saga) {
		s.retryIf = retryable
	}
}

// NewSaga 创建一个新的Saga
//
// 示例：
//
//	s := saga.NewSaga(0, saga.WithCompensationRetry(3, 50*time.Millisecond))
//	s.AddStep("reserve_stock", reserve, release)
//	s.AddStep("append_ledger", appendLedger, nil)
//	err := s.Execute(ctx)
func NewSaga(timeout time.Duration, opts ...Option) *Saga {
	s := &Saga{
		steps:              make([]Step, 0, 2),
		timeout:            timeout,
		compensateAttempts: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStep 添加一个Saga步骤
// 步骤按添加顺序执行，按逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// ExecutionError Saga执行失败的详细信息
type ExecutionError struct {
	Step            string // 失败的步骤名
	Index           int    // 失败的步骤序号(从0开始)
	Err             error  // 步骤错误
	CompensationErr error  // 补偿错误(nil表示补偿全部成功)
}

func (e *ExecutionError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("步骤[%d:%s]执行失败: %v; 补偿失败: %v", e.Index, e.Step, e.Err, e.CompensationErr)
	}
	return fmt.Sprintf("步骤[%d:%s]执行失败: %v", e.Index, e.Step, e.Err)
}

// Unwrap 支持errors.Is匹配步骤错误
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Compensated 是否所有补偿都成功
func (e *ExecutionError) Compensated() bool {
	return e.CompensationErr == nil
}

// Execute 执行Saga
//
// 执行流程：
// 1. 按顺序执行每个步骤的Action
// 2. 某步失败（或超时）时，逆序执行已完成步骤的Compensate
// 3. 返回*ExecutionError
//
// 注意：失败步骤本身不会被补偿，它的Action应保证失败时没有副作用
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return s.fail(ctx, i, step.Name, fmt.Errorf("saga超时: %w", err))
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				return s.fail(ctx, i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// fail 触发补偿并构造错误
func (s *Saga) fail(ctx context.Context, index int, name string, err error) error {
	// 补偿不受调用方取消和超时影响，但保留Context中的值(如trace)
	compErr := s.compensate(context.WithoutCancel(ctx))
	return &ExecutionError{
		Step:            name,
		Index:           index,
		Err:             err,
		CompensationErr: compErr,
	}
}

// compensate 逆序执行补偿
// 某个补偿失败时继续执行其余补偿，最后返回聚合错误
func (s *Saga) compensate(ctx context.Context) error {
	var errs []error
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := s.compensateWithRetry(ctx, step); err != nil {
			errs = append(errs, fmt.Errorf("补偿[%s]失败: %w", step.Name, err))
		}
	}
	s.executed = nil
	return errors.Join(errs...)
}

func (s *Saga) compensateWithRetry(ctx context.Context, step Step) error {
	var err error
	for attempt := 1; attempt <= s.compensateAttempts; attempt++ {
		if err = step.Compensate(ctx); err == nil {
			return nil
		}
		if s.retryIf != nil && !s.retryIf(err) {
			return err
		}
		if attempt < s.compensateAttempts && s.compensateBackoff > 0 {
			time.Sleep(s.compensateBackoff)
		}
	}
	return err
}
