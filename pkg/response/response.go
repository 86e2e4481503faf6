package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
)

// Response 统一响应结构
// 设计说明:
// 1. HTTP状态码始终是200,结果由Code区分(0表示成功)
// 2. 库存不足、图书不存在也是正常的业务结果,同样走这个结构
// 3. Data失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// Error 错误响应
// 非AppError按系统内部错误处理;底层原因只写日志,客户端只看到Message
//
//	result, err := h.purchaser.Purchase(ctx, key, req.BookID, req.Quantity, req.BuyerID)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Err != nil {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("request_id", c.GetString("request_id")),
			slog.Int("code", appErr.Code),
			slog.Any("error", appErr.Err),
		)
	}
	ErrorWithCode(c, appErr.Code, appErr.Message)
}

// ErrorWithCode 指定业务码,用于购买结果这类不是error的失败
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{Code: code, Message: message})
}

// PageData 分页数据
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPageData 计算总页数(向上取整)
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
