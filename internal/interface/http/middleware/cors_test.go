package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/config"
)

func newCORSEngine(cfg config.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(cfg))
	r.POST("/api/v1/purchases", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORS(t *testing.T) {
	cfg := config.CORSConfig{
		Enabled:       true,
		AllowOrigins:  []string{"http://localhost:3000"},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Content-Type", "Idempotency-Key"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        time.Hour,
	}
	r := newCORSEngine(cfg)

	t.Run("预检请求", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/purchases", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("不在允许列表的Origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("无Origin直接放行", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("未启用", func(t *testing.T) {
		off := newCORSEngine(config.CORSConfig{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		off.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestMatchOrigin(t *testing.T) {
	got, ok := matchOrigin([]string{"*"}, "http://a.example", false)
	assert.True(t, ok)
	assert.Equal(t, "*", got)

	got, ok = matchOrigin([]string{"*"}, "http://a.example", true)
	assert.True(t, ok)
	assert.Equal(t, "http://a.example", got)
}
