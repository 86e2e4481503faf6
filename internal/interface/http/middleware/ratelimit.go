package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
	"github.com/xiebiao/bookstore-inventory/pkg/response"
)

// RateLimit 下单接口限流(令牌桶,进程级)
// 教学要点:
// 1. 抢购时大量请求集中在同一本书,限流挡在扣库存之前,减轻行锁排队
// 2. 被拒绝的请求不产生任何副作用,客户端可以稍后重试
// 3. limit<=0时不限流
func RateLimit(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			response.ErrorWithCode(c, apperrors.ErrCodeTooManyRequests, "请求过于频繁,请稍后重试")
			c.Abort()
			return
		}
		c.Next()
	}
}
