package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/config"
)

// CORS 跨域资源共享中间件
// 教学要点:
// 1. 管理页面与API不同源时,浏览器需要服务端返回CORS头部
// 2. 预检请求(OPTIONS)直接返回204,不进入业务路由
// 3. Idempotency-Key是自定义头部,必须出现在Allow-Headers里,否则浏览器拦截购买请求
// 4. allow_credentials=true时不能使用"*"
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			// 非浏览器请求(curl、服务间调用)不受同源策略限制
			c.Next()
			return
		}

		allowOrigin, ok := matchOrigin(cfg.AllowOrigins, origin, cfg.AllowCredentials)
		if !ok {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Vary", "Origin")
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		if expose != "" {
			c.Header("Access-Control-Expose-Headers", expose)
		}
		if cfg.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if cfg.MaxAge > 0 {
			c.Header("Access-Control-Max-Age", maxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// matchOrigin 携带凭证时"*"回显具体Origin
func matchOrigin(allowed []string, origin string, credentials bool) (string, bool) {
	for _, o := range allowed {
		if o == origin {
			return origin, true
		}
		if o == "*" {
			if credentials {
				return origin, true
			}
			return "*", true
		}
	}
	return "", false
}
