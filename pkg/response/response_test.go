package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
)

func serve(t *testing.T, handler gin.HandlerFunc) Response {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	require.Equal(t, http.StatusOK, w.Code, "业务失败也返回200")

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestError(t *testing.T) {
	t.Run("AppError保留业务码", func(t *testing.T) {
		resp := serve(t, func(c *gin.Context) {
			Error(c, apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足"))
		})
		assert.Equal(t, apperrors.ErrCodeInsufficientStock, resp.Code)
		assert.Equal(t, "库存不足", resp.Message)
		assert.Nil(t, resp.Data)
	})

	t.Run("内部原因不暴露给客户端", func(t *testing.T) {
		resp := serve(t, func(c *gin.Context) {
			Error(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))
		})
		assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
		assert.Equal(t, "系统内部错误", resp.Message)
	})
}

func TestNewPageData(t *testing.T) {
	assert.Equal(t, 3, NewPageData(nil, 41, 1, 20).TotalPages)
	assert.Equal(t, 2, NewPageData(nil, 40, 1, 20).TotalPages)
	assert.Equal(t, 0, NewPageData(nil, 0, 1, 20).TotalPages)
	assert.Equal(t, 0, NewPageData(nil, 5, 1, 0).TotalPages)
}
