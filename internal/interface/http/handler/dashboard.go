package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-inventory/internal/application/dashboard"
	"github.com/xiebiao/bookstore-inventory/pkg/response"
)

// DashboardHandler 首页统计处理器
type DashboardHandler struct {
	summaryUseCase *dashboard.SummaryUseCase
}

// NewDashboardHandler 创建统计处理器
func NewDashboardHandler(summaryUseCase *dashboard.SummaryUseCase) *DashboardHandler {
	return &DashboardHandler{summaryUseCase: summaryUseCase}
}

// Summary 首页统计
// @Summary      首页统计(图书数、分类数、销售额、低库存图书数)
// @Tags         统计
// @Produce      json
// @Success      200 {object} response.Response{data=dashboard.Summary}
// @Router       /api/v1/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	s, err := h.summaryUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s)
}
