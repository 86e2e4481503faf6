// Package metrics 提供基于Prometheus的指标收集
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值，如购买总数、补偿次数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值，如正在处理的购买数、熔断器状态
//
// **3. Histogram（直方图）**：观测值的分布，如购买耗时、HTTP请求耗时
//
// # 使用示例
//
//	// 1. 初始化(可重复调用)
//	metrics.InitMetrics()
//
//	// 2. 暴露/metrics端点
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 业务代码中记录
//	metrics.ObservePurchase("success", time.Since(start))
//
// # 命名规范
//
// 1. Counter以`_total`结尾
// 2. Histogram以单位结尾（`_seconds`）
// 3. 标签只使用有限取值的维度（outcome、method），不要用book_id、user_id做标签
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 购买业务指标

	// PurchasesTotal 购买结果计数（Counter）
	// 标签：outcome（success/insufficient_stock/book_not_found/ledger_failure/compensation_failed/error）
	PurchasesTotal *prometheus.CounterVec

	// PurchaseDuration 购买耗时（Histogram）
	PurchaseDuration prometheus.Histogram

	// PurchasesInProgress 正在处理的购买数（Gauge）
	PurchasesInProgress prometheus.Gauge

	// StockCompensationsTotal 库存回补次数（Counter）
	// 标签：result（success/failure）
	StockCompensationsTotal *prometheus.CounterVec

	// ReconciliationIncidentsTotal 需要人工对账的事故数（Counter）
	ReconciliationIncidentsTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange、routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. sync.Once保证只注册一次，重复调用是安全的
// 3. 业务代码中的记录函数会先调用InitMetrics，未显式初始化时也不会panic
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 购买业务指标
	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_purchases_total",
			Help: "购买请求结果计数",
		},
		[]string{"outcome"},
	)

	PurchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "inventory_purchase_duration_seconds",
			Help: "购买耗时（秒）",
			// 一次购买是2~3条SQL，通常在几毫秒到几十毫秒之间
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	PurchasesInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_purchases_in_progress",
			Help: "正在处理的购买数",
		},
	)

	StockCompensationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_stock_compensations_total",
			Help: "购买记录写入失败后的库存回补次数",
		},
		[]string{"result"},
	)

	ReconciliationIncidentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_reconciliation_incidents_total",
			Help: "库存已扣减但购买记录缺失、且回补失败的事故数",
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
}

// =========================================
// 业务记录函数
// =========================================

// ObservePurchase 记录一次购买的结果和耗时
func ObservePurchase(outcome string, elapsed time.Duration) {
	InitMetrics()
	PurchasesTotal.WithLabelValues(outcome).Inc()
	PurchaseDuration.Observe(elapsed.Seconds())
}

// TrackPurchaseInProgress 正在处理的购买数+1，返回的函数用于-1
//
//	defer metrics.TrackPurchaseInProgress()()
func TrackPurchaseInProgress() func() {
	InitMetrics()
	PurchasesInProgress.Inc()
	return PurchasesInProgress.Dec
}

// RecordCompensation 记录一次库存回补
func RecordCompensation(ok bool) {
	InitMetrics()
	StockCompensationsTotal.WithLabelValues(resultLabel(ok)).Inc()
}

// RecordReconciliationIncident 记录一次对账事故
func RecordReconciliationIncident() {
	InitMetrics()
	ReconciliationIncidentsTotal.Inc()
}

// RecordPublish 记录一次消息发布
func RecordPublish(exchange, routingKey string, ok bool) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey, resultLabel(ok)).Inc()
}

// RecordConsume 记录一次消息消费
func RecordConsume(queue string, ok bool) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, resultLabel(ok)).Inc()
}

// RecordCircuitBreaker 记录熔断器请求结果和当前状态
// result取值：success/failure/rejected
func RecordCircuitBreaker(name, result string, state int) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// ObserveHTTPRequest 记录一次HTTP请求
func ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	InitMetrics()
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
