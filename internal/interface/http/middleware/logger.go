package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求ID头
const RequestIDHeader = "X-Request-ID"

// 慢请求阈值
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
//
// 教学要点:
// 1. 记录每个请求的基本信息(方法、路径、耗时、状态码)
// 2. 复用上游传入的X-Request-ID,没有时生成一个,便于链路追踪
// 3. 使用slog结构化输出,字段可以直接被日志系统检索
//
// DON'T:
// - 记录完整的请求体(可能很大,影响性能)
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 步骤1: 请求ID
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		// 步骤2: 处理请求
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// 步骤3: 记录请求信息
		attrs := []any{
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", latency),
			slog.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		ctx := c.Request.Context()
		switch {
		case c.Writer.Status() >= 500:
			logger.ErrorContext(ctx, "http request", attrs...)
		case latency > slowRequestThreshold:
			logger.WarnContext(ctx, "slow http request", attrs...)
		default:
			logger.InfoContext(ctx, "http request", attrs...)
		}
	}
}

// GetRequestID 当前请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
