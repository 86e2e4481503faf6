package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
	"github.com/xiebiao/bookstore-inventory/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-inventory/pkg/response"
)

// CategoryHandler 分类HTTP处理器
// 分类维护没有跨聚合的编排,直接调用领域服务
type CategoryHandler struct {
	categoryService category.Service
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(categoryService category.Service) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.CategoryResponse}
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	list, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	result := make([]dto.CategoryResponse, len(list))
	for i, cat := range list {
		result[i] = toCategoryResponse(cat)
	}
	response.Success(c, result)
}

// CreateCategory 创建分类
// @Summary      创建分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Param        request body dto.CategoryRequest true "分类名"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Router       /api/v1/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cat, err := h.categoryService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toCategoryResponse(cat))
}

// RenameCategory 重命名分类
// @Summary      重命名分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Param        id      path int                 true "分类ID"
// @Param        request body dto.CategoryRequest true "分类名"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Router       /api/v1/categories/{id} [put]
func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cat, err := h.categoryService.RenameCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toCategoryResponse(cat))
}

// DeleteCategory 删除分类(所属图书变为未分类)
// @Summary      删除分类
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func toCategoryResponse(c *category.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
